// Package server is the HTTP surface over the engine. It binds requests,
// resolves the caller from the X-User-ID header (authentication itself is
// provided upstream) and maps the domain error taxonomy onto status codes.
package server

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/concordgraph/concord/internal/core"
	"github.com/concordgraph/concord/internal/core/domainerr"
	"github.com/concordgraph/concord/internal/core/model"
	"github.com/concordgraph/concord/internal/keyword"
)

type Server struct {
	Engine    *core.Engine
	Extractor keyword.Extractor
	Log       *zap.Logger
}

func New(engine *core.Engine, extractor keyword.Extractor, log *zap.Logger) *Server {
	return &Server{Engine: engine, Extractor: extractor, Log: log}
}

// contentAPI is the slice of the polymorphic contract the generic routes
// need; every typed schema satisfies it through its embedded base.
type contentAPI interface {
	Name() string
	FindByID(ctx context.Context, id string) (*model.ContentNode, error)
	Update(ctx context.Context, id string, fields map[string]interface{}) (*model.ContentNode, error)
	Delete(ctx context.Context, id string) error
	VoteInclusion(ctx context.Context, id, userID string, isPositive bool) (model.VoteCounters, error)
	VoteContent(ctx context.Context, id, userID string, isPositive bool) (model.VoteCounters, error)
	GetVoteStatus(ctx context.Context, id, userID string) (*model.UserVoteStatus, error)
	GetVotes(ctx context.Context, id string) (model.VoteCounters, error)
	RemoveVote(ctx context.Context, id, userID string, kind model.VoteKind) (model.VoteCounters, error)
	SetVisibility(ctx context.Context, id string, visible bool) (*model.ContentNode, error)
	GetVisibility(ctx context.Context, id string) (bool, error)
}

// taggedAPI is the additional surface of keyword-bearing types.
type taggedAPI interface {
	contentAPI
	UpdateKeywords(ctx context.Context, id string, keywords []model.KeywordWithFrequency) error
	UpdateCategories(ctx context.Context, id string, categoryIDs []string) error
	Keywords(ctx context.Context, id string) ([]model.Tag, error)
	ListCategories(ctx context.Context, id string) ([]model.CategoryRef, error)
	Related(ctx context.Context, id string) ([]model.SharedTagPeer, error)
}

func (s *Server) SetupRouter() *gin.Engine {
	r := gin.Default()

	v1 := r.Group("/api/v1")

	words := v1.Group("/words")
	words.POST("", s.createWord)
	words.GET("/lookup/:word", s.lookupWord)
	words.GET("/:id/definitions", s.listDefinitions)
	s.contentRoutes(words, s.Engine.Words())

	definitions := v1.Group("/definitions")
	definitions.POST("", s.createDefinition)
	s.contentRoutes(definitions, s.Engine.Definitions())

	statements := v1.Group("/statements")
	statements.POST("", s.createStatement)
	s.contentRoutes(statements, s.Engine.Statements())
	s.taggedRoutes(statements, s.Engine.Statements())

	questions := v1.Group("/questions")
	questions.POST("", s.createQuestion)
	questions.GET("/:id/answers", s.listAnswers)
	s.contentRoutes(questions, s.Engine.Questions())
	s.taggedRoutes(questions, s.Engine.Questions())

	answers := v1.Group("/answers")
	answers.POST("", s.createAnswer)
	s.contentRoutes(answers, s.Engine.Answers())
	s.taggedRoutes(answers, s.Engine.Answers())

	categories := v1.Group("/categories")
	categories.POST("", s.createCategory)
	categories.GET("/:id/members", s.listCategoryMembers)
	s.contentRoutes(categories, s.Engine.Categories())

	return r
}

type voteRequest struct {
	IsPositive *bool `json:"isPositive" binding:"required"`
}

type visibilityRequest struct {
	Visible *bool `json:"visible" binding:"required"`
}

func (s *Server) contentRoutes(rg *gin.RouterGroup, api contentAPI) {
	rg.GET("/:id", func(c *gin.Context) {
		node, err := api.FindByID(c.Request.Context(), c.Param("id"))
		if err != nil {
			s.respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, node)
	})

	rg.PATCH("/:id", func(c *gin.Context) {
		var fields map[string]interface{}
		if err := c.ShouldBindJSON(&fields); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
		node, err := api.Update(c.Request.Context(), c.Param("id"), fields)
		if err != nil {
			s.respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, node)
	})

	rg.DELETE("/:id", func(c *gin.Context) {
		if err := api.Delete(c.Request.Context(), c.Param("id")); err != nil {
			s.respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true})
	})

	rg.POST("/:id/votes/inclusion", func(c *gin.Context) {
		s.handleVote(c, api.VoteInclusion)
	})

	rg.POST("/:id/votes/content", func(c *gin.Context) {
		s.handleVote(c, api.VoteContent)
	})

	rg.DELETE("/:id/votes/:kind", func(c *gin.Context) {
		userID, ok := s.requireUser(c)
		if !ok {
			return
		}
		var kind model.VoteKind
		switch c.Param("kind") {
		case "inclusion":
			kind = model.VoteKindInclusion
		case "content":
			kind = model.VoteKindContent
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": "vote kind must be inclusion or content"})
			return
		}
		counters, err := api.RemoveVote(c.Request.Context(), c.Param("id"), userID, kind)
		if err != nil {
			s.respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, counters)
	})

	rg.GET("/:id/votes", func(c *gin.Context) {
		// Without a caller identity this is the public aggregate view.
		userID := c.GetHeader("X-User-ID")
		if userID == "" {
			counters, err := api.GetVotes(c.Request.Context(), c.Param("id"))
			if err != nil {
				s.respondError(c, err)
				return
			}
			c.JSON(http.StatusOK, model.UserVoteStatus{Counters: counters})
			return
		}
		status, err := api.GetVoteStatus(c.Request.Context(), c.Param("id"), userID)
		if err != nil {
			s.respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, status)
	})

	rg.PUT("/:id/visibility", func(c *gin.Context) {
		var req visibilityRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "visible is required"})
			return
		}
		node, err := api.SetVisibility(c.Request.Context(), c.Param("id"), *req.Visible)
		if err != nil {
			s.respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, node)
	})

	rg.GET("/:id/visibility", func(c *gin.Context) {
		visible, err := api.GetVisibility(c.Request.Context(), c.Param("id"))
		if err != nil {
			s.respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"visible": visible})
	})
}

func (s *Server) taggedRoutes(rg *gin.RouterGroup, api taggedAPI) {
	rg.PUT("/:id/keywords", func(c *gin.Context) {
		var req struct {
			Keywords []keywordInput `json:"keywords" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "keywords are required"})
			return
		}
		if err := api.UpdateKeywords(c.Request.Context(), c.Param("id"), toKeywords(req.Keywords)); err != nil {
			s.respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true})
	})

	rg.PUT("/:id/categories", func(c *gin.Context) {
		var req struct {
			CategoryIDs []string `json:"categoryIds" binding:"max=3"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "at most 3 category ids"})
			return
		}
		if err := api.UpdateCategories(c.Request.Context(), c.Param("id"), req.CategoryIDs); err != nil {
			s.respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true})
	})

	rg.GET("/:id/keywords", func(c *gin.Context) {
		tags, err := api.Keywords(c.Request.Context(), c.Param("id"))
		if err != nil {
			s.respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"keywords": tags})
	})

	rg.GET("/:id/categories", func(c *gin.Context) {
		cats, err := api.ListCategories(c.Request.Context(), c.Param("id"))
		if err != nil {
			s.respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"categories": cats})
	})

	rg.GET("/:id/related", func(c *gin.Context) {
		peers, err := api.Related(c.Request.Context(), c.Param("id"))
		if err != nil {
			s.respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"related": peers})
	})
}

func (s *Server) handleVote(c *gin.Context, cast func(ctx context.Context, id, userID string, isPositive bool) (model.VoteCounters, error)) {
	userID, ok := s.requireUser(c)
	if !ok {
		return
	}
	var req voteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "isPositive is required"})
		return
	}
	counters, err := cast(c.Request.Context(), c.Param("id"), userID, *req.IsPositive)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, counters)
}

func (s *Server) requireUser(c *gin.Context) (string, bool) {
	userID := c.GetHeader("X-User-ID")
	if userID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "X-User-ID header is required"})
		return "", false
	}
	return userID, true
}

func (s *Server) respondError(c *gin.Context, err error) {
	switch domainerr.ClassOf(err) {
	case domainerr.ClassValidation:
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case domainerr.ClassNotFound:
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case domainerr.ClassPreconditionFailed:
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	default:
		s.Log.Error("request failed", zap.Error(err), zap.String("path", c.FullPath()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
