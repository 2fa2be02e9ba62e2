package server

import (
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"webmap/internal/render"
	"webmap/internal/shortcode"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
	msgTooLarge         = "content too large"
)

const (
	// maxContentBytes bounds the decoded content accepted by /render, in bytes.
	maxContentBytes = 1 << 20
	// maxBodyBytes bounds the raw request body. JSON escaping can double
	// the size of the content.
	maxBodyBytes = 2*maxContentBytes + 4096
)

// EmbedQuery is the query string of GET /embed.
type EmbedQuery struct {
	ID         *string  `form:"id" validate:"omitempty,max=256"`
	Width      *string  `form:"width" validate:"omitempty,max=32"`
	Height     *string  `form:"height" validate:"omitempty,max=32"`
	Extent     *string  `form:"extent" validate:"omitempty,max=256"`
	Theme      *string  `form:"theme" validate:"omitempty,max=32"`
	AltBasemap *string  `form:"alt_basemap" validate:"omitempty,max=64"`
	LargerText *string  `form:"larger_text" validate:"omitempty,max=256"`
	Flags      []string `form:"flag" validate:"max=32,dive,min=1,max=64"`
	Locale     string   `form:"locale" validate:"max=32"`
}

// TranslateRequest is the body of POST /translate.
type TranslateRequest struct {
	ID         *string  `json:"id" validate:"omitempty,max=256"`
	Width      *string  `json:"width" validate:"omitempty,max=32"`
	Height     *string  `json:"height" validate:"omitempty,max=32"`
	Extent     *string  `json:"extent" validate:"omitempty,max=256"`
	Theme      *string  `json:"theme" validate:"omitempty,max=32"`
	AltBasemap *string  `json:"alt_basemap" validate:"omitempty,max=64"`
	LargerText *string  `json:"larger_text" validate:"omitempty,max=256"`
	Flags      []string `json:"flags" validate:"max=32,dive,min=1,max=64"`
	Locale     string   `json:"locale" validate:"max=32"`
}

// TranslateResponse is returned by POST /translate.
type TranslateResponse struct {
	Shortcode string            `json:"shortcode"`
	URL       string            `json:"url"`
	Params    []shortcode.Param `json:"params"`
	Markup    string            `json:"markup"`
}

// RenderRequest is the body of POST /render.
type RenderRequest struct {
	Content string `json:"content" validate:"required"`
	Locale  string `json:"locale" validate:"max=32"`
}

// RenderResponse is returned by POST /render.
type RenderResponse struct {
	Content    string   `json:"content"`
	Rendered   int      `json:"rendered"`
	Shortcodes []string `json:"shortcodes"`
}

// ErrorResponse is the standard error response format.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// Embed renders one map from query parameters and returns the markup.
// GET /embed?id=...&flag=zoom&flag=home
func (h *Handler) Embed(c *gin.Context) {
	var q EmbedQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: msgInvalidRequest})
		return
	}
	if err := h.val.Struct(q); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: msgValidationFailed, Details: err.Error()})
		return
	}

	a := shortcode.Attributes{
		ID: q.ID, Width: q.Width, Height: q.Height, Extent: q.Extent,
		Theme: q.Theme, AltBasemap: q.AltBasemap, LargerText: q.LargerText,
		Flags: q.Flags,
	}
	e := h.rendererFor(q.Locale).Translate(a)
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(e.Markup))
}

// Translate returns the URL, parameters and markup for a JSON attribute set.
// POST /translate
func (h *Handler) Translate(c *gin.Context) {
	var req TranslateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: msgInvalidRequest})
		return
	}
	if err := h.val.Struct(req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: msgValidationFailed, Details: err.Error()})
		return
	}

	a := shortcode.Attributes{
		ID: req.ID, Width: req.Width, Height: req.Height, Extent: req.Extent,
		Theme: req.Theme, AltBasemap: req.AltBasemap, LargerText: req.LargerText,
		Flags: req.Flags,
	}
	e := h.rendererFor(req.Locale).Translate(a)
	c.JSON(http.StatusOK, TranslateResponse{
		Shortcode: a.Shortcode(),
		URL:       e.URL,
		Params:    e.Params.Pairs(),
		Markup:    e.Markup,
	})
}

// Render expands every shortcode in the submitted content.
// POST /render
func (h *Handler) Render(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBodyBytes)

	var req RenderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, ErrorResponse{Error: msgTooLarge})
			return
		}
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: msgInvalidRequest})
		return
	}
	if err := h.val.Struct(req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: msgValidationFailed, Details: err.Error()})
		return
	}
	if len(req.Content) > maxContentBytes {
		c.JSON(http.StatusRequestEntityTooLarge, ErrorResponse{
			Error:   msgTooLarge,
			Details: fmt.Sprintf("content is %d bytes, limit is %d", len(req.Content), maxContentBytes),
		})
		return
	}

	out, matches := h.rendererFor(req.Locale).Expand(req.Content)
	resp := RenderResponse{Content: out, Rendered: len(matches), Shortcodes: []string{}}
	for _, m := range matches {
		if len(m.Unknown) > 0 {
			log.Printf("ignoring unknown attributes %v in %s", m.Unknown, m.Raw)
		}
		resp.Shortcodes = append(resp.Shortcodes, m.Raw)
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) rendererFor(lang string) render.Renderer {
	if lang == "" {
		return h.renderer
	}
	return h.renderer.WithLocale(lang)
}
