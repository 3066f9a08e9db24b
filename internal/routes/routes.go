// Package routes serves the browser page table. Every protected page sits
// behind middleware.RequireRoles, so an anonymous visitor is sent to the
// login path and a visitor with the wrong role to the fallback path.
package routes

import (
	"net/http"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/jobmaroc/jobboard/internal/http/respond"
	"github.com/jobmaroc/jobboard/internal/middleware"
	"github.com/jobmaroc/jobboard/internal/session"
)

// Page is one entry of the route table. Public pages carry no roles; an
// empty Roles on a protected page admits any signed-in user.
type Page struct {
	Path   string         `json:"path"`
	Name   string         `json:"page"`
	Public bool           `json:"public"`
	Roles  []session.Role `json:"roles,omitempty"`
}

func public(path, name string) Page { return Page{Path: path, Name: name, Public: true} }

func only(role session.Role, path, name string) Page {
	return Page{Path: path, Name: name, Roles: []session.Role{role}}
}

// Table lists every page the front-end can navigate to.
var Table = []Page{
	public("/", "home"),
	public("/login", "login"),
	public("/signup/choice", "signup-choice"),
	public("/signup/talent", "signup-talent"),
	public("/signup/manager", "signup-manager"),
	public("/pending-approval", "pending-approval"),

	only(session.RoleAdmin, "/users", "admin-users"),
	only(session.RoleAdmin, "/dashboard", "admin-dashboard"),
	only(session.RoleAdmin, "/approvallist", "admin-approval-list"),
	only(session.RoleAdmin, "/profil", "admin-profile"),
	only(session.RoleAdmin, "/offers", "admin-offers"),
	only(session.RoleAdmin, "/help-support", "admin-help-support"),
	only(session.RoleAdmin, "/notifications", "admin-notifications"),

	only(session.RoleTalent, "/talent-space/profil", "talent-profile"),
	only(session.RoleTalent, "/talent-space/offers", "talent-offers"),
	only(session.RoleTalent, "/talent-space/settings", "talent-settings"),
	only(session.RoleTalent, "/talent-space/applications", "talent-applications"),
	only(session.RoleTalent, "/talent-space/help-support", "talent-help-support"),
	only(session.RoleTalent, "/talent-space/notifications", "talent-notifications"),

	only(session.RoleManager, "/manager-space/dashboard", "manager-dashboard"),
	only(session.RoleManager, "/manager-space/settings", "manager-settings"),
	only(session.RoleManager, "/manager-space/profil", "manager-profile"),
	only(session.RoleManager, "/manager-space/users", "manager-users"),
	only(session.RoleManager, "/manager-space/offers", "manager-offers"),
	only(session.RoleManager, "/manager-space/help-support", "manager-help-support"),
	only(session.RoleManager, "/manager-space/notifications", "manager-notifications"),
}

// Lookup finds the page registered for path.
func Lookup(path string) (Page, bool) {
	for _, p := range Table {
		if p.Path == path {
			return p, true
		}
	}
	return Page{}, false
}

// Descriptor is returned for an allowed navigation when no SPA shell is configured.
type Descriptor struct {
	Page
	Username string       `json:"username,omitempty"`
	Role     session.Role `json:"userRole,omitempty"`
}

// Handler serves Table through the guard.
type Handler struct {
	guard     session.Guard
	staticDir string
	logger    *zap.SugaredLogger
}

// NewHandler serves staticDir/index.html for allowed pages when staticDir
// holds one, and a JSON Descriptor otherwise.
func NewHandler(guard session.Guard, staticDir string, logger *zap.SugaredLogger) *Handler {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Handler{guard: guard, staticDir: staticDir, logger: logger}
}

// Register attaches every page of Table, plus /static/ when a shell directory is set.
func (h *Handler) Register(mux *http.ServeMux) {
	for _, page := range Table {
		pattern := "GET " + page.Path
		if page.Path == "/" {
			pattern = "GET /{$}"
		}
		var handler http.Handler = h.render(page)
		if !page.Public {
			handler = middleware.RequireRoles(h.guard, page.Roles...)(handler)
		}
		mux.Handle(pattern, handler)
	}
	if h.staticDir != "" {
		mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.Dir(h.staticDir))))
	}
}

func (h *Handler) render(page Page) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if shell := h.shell(); shell != "" {
			http.ServeFile(w, r, shell)
			return
		}
		out := Descriptor{Page: page}
		if sess := middleware.SessionFrom(r.Context()); sess != nil {
			out.Username = sess.Username
			out.Role = sess.Role
		}
		respond.JSON(w, http.StatusOK, page.Name, out)
	}
}

func (h *Handler) shell() string {
	if h.staticDir == "" {
		return ""
	}
	index := filepath.Join(h.staticDir, "index.html")
	if _, err := os.Stat(index); err != nil {
		h.logger.Debugw("SPA shell unavailable", "path", index, "error", err)
		return ""
	}
	return index
}
