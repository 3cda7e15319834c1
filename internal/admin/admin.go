// Package admin serves the server-rendered admin pages: list, show, add,
// edit and delete for every registered view, plus the login form.
package admin

import (
	"embed"
	"errors"
	"html/template"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/text/message"

	"github.com/annotation-layers/backend/internal/auth"
	"github.com/annotation-layers/backend/internal/handler"
	"github.com/annotation-layers/backend/internal/i18n"
	"github.com/annotation-layers/backend/internal/models"
	"github.com/annotation-layers/backend/internal/service"
	"github.com/annotation-layers/backend/internal/validation"
	"github.com/annotation-layers/backend/internal/views"
)

// LoginPath is where unauthenticated browsers are sent.
const LoginPath = "/login/"

//go:embed templates/*.html
var templatesFS embed.FS

// flashes are the notices a redirect can carry in the flash query parameter.
var flashes = map[string]string{
	"added":   "Record added.",
	"changed": "Record changed.",
	"deleted": "Record deleted.",
	"in_use":  "Annotation layer still has annotations.",
}

// Admin renders the admin pages.
type Admin struct {
	store     handler.Store
	auth      *auth.Authenticator
	tr        *i18n.Translator
	logger    *zap.Logger
	resources []*resource
}

// New creates the admin UI.
func New(store handler.Store, authn *auth.Authenticator, tr *i18n.Translator, logger *zap.Logger) *Admin {
	validation.Setup()
	a := &Admin{
		store:  store,
		auth:   authn,
		tr:     tr,
		logger: logger,
	}
	a.resources = []*resource{a.layerResource(), a.annotationResource()}
	return a
}

// Templates parses the embedded page templates.
func Templates() *template.Template {
	return template.Must(template.New("admin").
		Funcs(template.FuncMap{"t": i18n.T}).
		ParseFS(templatesFS, "templates/*.html"))
}

// RegisterRoutes installs the templates and the admin routes on engine.
func (a *Admin) RegisterRoutes(engine *gin.Engine) {
	engine.SetHTMLTemplate(Templates())

	engine.GET(LoginPath, a.loginForm)
	engine.POST(LoginPath, a.login)
	engine.GET("/logout/", a.logout)
	engine.GET("/", func(c *gin.Context) {
		c.Redirect(http.StatusFound, a.resources[0].view.Path()+"/list/")
	})

	for _, r := range a.resources {
		g := engine.Group(r.view.Path(), a.auth.RequireBrowser(LoginPath))
		g.GET("/list/", a.list(r))
		g.GET("/show/:id", a.show(r))
		g.GET("/add", a.addForm(r))
		g.POST("/add", a.add(r))
		g.GET("/edit/:id", a.editForm(r))
		g.POST("/edit/:id", a.edit(r))
		g.POST("/delete/:id", a.remove(r))
		g.POST("/muldelete", a.removeMany(r))
	}
}

// page is the data every template receives.
type page struct {
	P     *message.Printer
	Lang  string
	Title string
	User  string
	Menu  []models.MenuCategory

	Flash        string
	FlashIsError bool

	Base    string
	ID      string
	Columns []string
	Rows    []listRow
	Fields  []field
	Action  string
	Next    string
}

type listRow struct {
	ID    string
	Cells []string
}

// field is one show or form entry.
type field struct {
	Name        string
	Label       string
	Description string
	Required    bool
	Widget      string
	Value       string
	Options     []option
	Errors      []string
}

type option struct {
	Value    string
	Label    string
	Selected bool
}

func (a *Admin) newPage(c *gin.Context, title string) page {
	tag := a.tr.ResolveTag(c.Request)
	p := a.tr.Printer(tag)

	pg := page{
		P:     p,
		Lang:  tag.String(),
		Title: i18n.T(p, title),
		User:  auth.Subject(c),
	}
	if pg.User != "" {
		pg.Menu = views.Menu(p, views.All()...)
	}
	if key, ok := flashes[c.Query("flash")]; ok {
		pg.Flash = i18n.T(p, key)
		pg.FlashIsError = c.Query("flash") == "in_use"
	}
	return pg
}

func (a *Admin) redirectList(c *gin.Context, r *resource, flash string) {
	c.Redirect(http.StatusFound, r.view.Path()+"/list/?flash="+flash)
}

// failed renders the error for anything that isn't a form problem.
func (a *Admin) failed(c *gin.Context, err error, action string) {
	if errors.Is(err, service.ErrNotFound) {
		c.String(http.StatusNotFound, i18n.T(a.tr.ForRequest(c.Request), "Not found"))
		return
	}
	a.logger.Error("Failed to "+action, zap.String("path", c.Request.URL.Path), zap.Error(err))
	c.String(http.StatusInternalServerError, "failed to "+action)
}

func (a *Admin) loginForm(c *gin.Context) {
	pg := a.newPage(c, "Login")
	pg.Next = c.Query("next")
	c.HTML(http.StatusOK, "login", pg)
}

func (a *Admin) login(c *gin.Context) {
	next := safeNext(c.PostForm("next"))

	var req models.LoginRequest
	token := ""
	err := c.ShouldBind(&req)
	if err == nil {
		token, err = a.auth.Login(req.Username, req.Password)
	}
	if err != nil {
		pg := a.newPage(c, "Login")
		pg.Next = next
		pg.Flash = i18n.T(pg.P, "Invalid username or password.")
		pg.FlashIsError = true
		c.HTML(http.StatusUnauthorized, "login", pg)
		return
	}

	a.auth.SetSessionCookie(c, token)
	c.Redirect(http.StatusFound, next)
}

func (a *Admin) logout(c *gin.Context) {
	a.auth.ClearSessionCookie(c)
	c.Redirect(http.StatusFound, LoginPath)
}

// safeNext only allows local redirect targets.
func safeNext(next string) string {
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") {
		return "/"
	}
	return next
}
