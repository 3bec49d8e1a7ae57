// Package view renders the embedded HTML pages.
package view

import (
	"embed"
	"fmt"
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/render"

	"watchlist/internal/platform/flash"
)

// Context keys read by the renderer. The auth middleware sets them.
const (
	KeyOwner         = "view.owner"
	KeyAuthenticated = "view.authenticated"
)

// Page names.
const (
	PageIndex    = "index"
	PageEdit     = "edit"
	PageLogin    = "login"
	PageNotFound = "404"
	PageError    = "error"
)

//go:embed templates/*.html
var templateFS embed.FS

var pages = []string{PageIndex, PageEdit, PageLogin, PageNotFound, PageError}

// HTMLRender is a gin render.HTMLRender where every page is the base layout
// combined with one page template.
type HTMLRender struct {
	templates map[string]*template.Template
}

// Compile-time check to ensure HTMLRender implements render.HTMLRender.
var _ render.HTMLRender = (*HTMLRender)(nil)

// NewHTMLRender parses the embedded templates.
func NewHTMLRender() (*HTMLRender, error) {
	base, err := template.ParseFS(templateFS, "templates/base.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse base template: %w", err)
	}

	templates := make(map[string]*template.Template, len(pages))
	for _, name := range pages {
		clone, err := base.Clone()
		if err != nil {
			return nil, err
		}
		t, err := clone.ParseFS(templateFS, "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s template: %w", name, err)
		}
		templates[name] = t
	}
	return &HTMLRender{templates: templates}, nil
}

// Instance implements render.HTMLRender.
func (r *HTMLRender) Instance(name string, data any) render.Render {
	t, ok := r.templates[name]
	if !ok {
		t = r.templates[PageNotFound]
	}
	return render.HTML{Template: t, Name: "base", Data: data}
}

// Renderer writes pages with the common layout data filled in.
type Renderer struct {
	flash *flash.Store
}

// NewRenderer creates a Renderer that drains flashes from store.
func NewRenderer(store *flash.Store) *Renderer {
	return &Renderer{flash: store}
}

// HTML renders page with data plus Owner, Authenticated and Flashes.
func (r *Renderer) HTML(c *gin.Context, status int, page string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	if owner, ok := c.Get(KeyOwner); ok {
		data["Owner"] = owner
	}
	data["Authenticated"] = c.GetBool(KeyAuthenticated)
	data["Flashes"] = r.flash.Pop(c)
	c.HTML(status, page, data)
}

// NotFound renders the 404 page.
func (r *Renderer) NotFound(c *gin.Context) {
	r.HTML(c, http.StatusNotFound, PageNotFound, nil)
}

// InternalError renders a generic error page with status 500.
func (r *Renderer) InternalError(c *gin.Context) {
	r.HTML(c, http.StatusInternalServerError, PageError, gin.H{"Message": "Something went wrong. Please try again later."})
}
