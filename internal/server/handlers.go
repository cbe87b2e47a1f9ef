package server

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/concordgraph/concord/internal/core/model"
	"github.com/concordgraph/concord/internal/core/schema"
)

type keywordInput struct {
	Word      string  `json:"word" binding:"required"`
	Frequency float64 `json:"frequency" binding:"required,gt=0,lte=1"`
}

func toKeywords(in []keywordInput) []model.KeywordWithFrequency {
	out := make([]model.KeywordWithFrequency, 0, len(in))
	for _, kw := range in {
		out = append(out, model.KeywordWithFrequency{
			Word:      kw.Word,
			Frequency: kw.Frequency,
			Source:    model.KeywordSourceUser,
		})
	}
	return out
}

// resolveKeywords prefers keywords the caller supplied; otherwise it asks
// the extraction collaborator, passing hint words through. With no
// extractor configured the node is created untagged.
func (s *Server) resolveKeywords(ctx context.Context, text string, supplied []keywordInput, hints []string) ([]model.KeywordWithFrequency, error) {
	if len(supplied) > 0 {
		return toKeywords(supplied), nil
	}
	if s.Extractor == nil {
		return nil, nil
	}
	return s.Extractor.Extract(ctx, text, hints)
}

type createWordRequest struct {
	Word         string `json:"word" binding:"required"`
	PublicCredit bool   `json:"publicCredit"`
}

func (s *Server) createWord(c *gin.Context) {
	userID, ok := s.requireUser(c)
	if !ok {
		return
	}
	var req createWordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "word is required"})
		return
	}

	node, err := s.Engine.Words().Create(c.Request.Context(), schema.WordCreate{
		Word:         req.Word,
		CreatedBy:    userID,
		PublicCredit: req.PublicCredit,
	})
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, node)
}

func (s *Server) lookupWord(c *gin.Context) {
	node, err := s.Engine.Words().FindByWord(c.Request.Context(), c.Param("word"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, node)
}

type createDefinitionRequest struct {
	WordID       string `json:"wordId" binding:"required"`
	Text         string `json:"text" binding:"required"`
	PublicCredit bool   `json:"publicCredit"`
}

func (s *Server) createDefinition(c *gin.Context) {
	userID, ok := s.requireUser(c)
	if !ok {
		return
	}
	var req createDefinitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "wordId and text are required"})
		return
	}

	node, err := s.Engine.Definitions().Create(c.Request.Context(), schema.DefinitionCreate{
		WordID:       req.WordID,
		Text:         req.Text,
		CreatedBy:    userID,
		PublicCredit: req.PublicCredit,
	})
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, node)
}

func (s *Server) listDefinitions(c *gin.Context) {
	nodes, err := s.Engine.Definitions().ForWord(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"definitions": nodes})
}

type createStatementRequest struct {
	Text         string         `json:"text" binding:"required"`
	PublicCredit bool           `json:"publicCredit"`
	CategoryIDs  []string       `json:"categoryIds" binding:"max=3"`
	Keywords     []keywordInput `json:"keywords"`
	UserKeywords []string       `json:"userKeywords"`
}

func (s *Server) createStatement(c *gin.Context) {
	userID, ok := s.requireUser(c)
	if !ok {
		return
	}
	var req createStatementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}

	keywords, err := s.resolveKeywords(c.Request.Context(), req.Text, req.Keywords, req.UserKeywords)
	if err != nil {
		s.respondError(c, err)
		return
	}

	node, err := s.Engine.Statements().Create(c.Request.Context(), schema.StatementCreate{
		Text:         req.Text,
		CreatedBy:    userID,
		PublicCredit: req.PublicCredit,
		CategoryIDs:  req.CategoryIDs,
		Keywords:     keywords,
	})
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, node)
}

type createQuestionRequest struct {
	Text         string         `json:"text" binding:"required"`
	PublicCredit bool           `json:"publicCredit"`
	CategoryIDs  []string       `json:"categoryIds" binding:"max=3"`
	Keywords     []keywordInput `json:"keywords"`
	UserKeywords []string       `json:"userKeywords"`
}

func (s *Server) createQuestion(c *gin.Context) {
	userID, ok := s.requireUser(c)
	if !ok {
		return
	}
	var req createQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}

	keywords, err := s.resolveKeywords(c.Request.Context(), req.Text, req.Keywords, req.UserKeywords)
	if err != nil {
		s.respondError(c, err)
		return
	}

	node, err := s.Engine.Questions().Create(c.Request.Context(), schema.QuestionCreate{
		Text:         req.Text,
		CreatedBy:    userID,
		PublicCredit: req.PublicCredit,
		CategoryIDs:  req.CategoryIDs,
		Keywords:     keywords,
	})
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, node)
}

type createAnswerRequest struct {
	QuestionID   string         `json:"questionId" binding:"required"`
	Text         string         `json:"text" binding:"required"`
	PublicCredit bool           `json:"publicCredit"`
	CategoryIDs  []string       `json:"categoryIds" binding:"max=3"`
	Keywords     []keywordInput `json:"keywords"`
	UserKeywords []string       `json:"userKeywords"`
}

func (s *Server) createAnswer(c *gin.Context) {
	userID, ok := s.requireUser(c)
	if !ok {
		return
	}
	var req createAnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}

	keywords, err := s.resolveKeywords(c.Request.Context(), req.Text, req.Keywords, req.UserKeywords)
	if err != nil {
		s.respondError(c, err)
		return
	}

	node, err := s.Engine.Answers().Create(c.Request.Context(), schema.AnswerCreate{
		QuestionID:   req.QuestionID,
		Text:         req.Text,
		CreatedBy:    userID,
		PublicCredit: req.PublicCredit,
		CategoryIDs:  req.CategoryIDs,
		Keywords:     keywords,
	})
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, node)
}

func (s *Server) listAnswers(c *gin.Context) {
	nodes, err := s.Engine.Answers().ForQuestion(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"answers": nodes})
}

type createCategoryRequest struct {
	Name         string   `json:"name" binding:"required"`
	WordIDs      []string `json:"wordIds" binding:"required,min=1,max=5"`
	PublicCredit bool     `json:"publicCredit"`
}

func (s *Server) createCategory(c *gin.Context) {
	userID, ok := s.requireUser(c)
	if !ok {
		return
	}
	var req createCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name and 1-5 wordIds are required"})
		return
	}

	node, err := s.Engine.Categories().Create(c.Request.Context(), schema.CategoryCreate{
		Name:         req.Name,
		WordIDs:      req.WordIDs,
		CreatedBy:    userID,
		PublicCredit: req.PublicCredit,
	})
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, node)
}

func (s *Server) listCategoryMembers(c *gin.Context) {
	members, err := s.Engine.Categories().Members(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"members": members})
}
