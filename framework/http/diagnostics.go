package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/km-arc/go-servicemanager/framework/container"
	"github.com/km-arc/go-servicemanager/framework/routing"
)

// Inspector is the view of a container the diagnostics API needs.
type Inspector interface {
	Services() []container.Record
	Aliases() []container.AliasEntry
	Alias(id container.TypeID) (container.TypeID, bool)
	HasService(target any) bool
	Introspector() container.Introspector
	GetServiceContext(ctx context.Context, id container.TypeID, localDeps ...any) (any, error)
}

// ServiceView is the JSON form of a registered service.
type ServiceView struct {
	ID   container.TypeID `json:"id"`
	Type string           `json:"type"`
}

// LookupView describes what the container knows about one id.
type LookupView struct {
	ID         container.TypeID `json:"id"`
	Registered bool             `json:"registered"`
	Alias      container.TypeID `json:"alias,omitempty"`
	Kind       string           `json:"kind,omitempty"`
	Params     []string         `json:"params,omitempty"`
}

type resolveRequest struct {
	ID container.TypeID `json:"id"`
}

// Diagnostics serves a read-mostly JSON API over a container.
//
//	GET  /services                list registered services
//	GET  /services/lookup?id=...  registration, alias and catalog entry of an id
//	POST /services/resolve        resolve {"id": "..."} (or ?id=...)
//	GET  /aliases                 list aliases
type Diagnostics struct {
	c      Inspector
	logger *zap.Logger
}

// NewDiagnostics creates the handlers. A nil logger discards.
func NewDiagnostics(c Inspector, logger *zap.Logger) *Diagnostics {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Diagnostics{c: c, logger: logger}
}

// Routes mounts the API under prefix.
func (d *Diagnostics) Routes(r *routing.Router, prefix string) {
	r.Prefix(prefix, func(r *routing.Router) {
		r.Get("/services", d.Services)
		r.Get("/services/lookup", d.Lookup)
		r.Post("/services/resolve", d.Resolve)
		r.Get("/aliases", d.Aliases)
	})
}

// Services lists every registered service in registration order.
func (d *Diagnostics) Services(w http.ResponseWriter, _ *http.Request) {
	records := d.c.Services()
	out := make([]ServiceView, 0, len(records))
	for _, rec := range records {
		out = append(out, ServiceView{ID: rec.Type, Type: fmt.Sprintf("%T", rec.Instance)})
	}
	NewResponse(w).Success(out)
}

// Aliases lists every alias.
func (d *Diagnostics) Aliases(w http.ResponseWriter, _ *http.Request) {
	NewResponse(w).Success(d.c.Aliases())
}

// Lookup reports what the container knows about ?id=.
func (d *Diagnostics) Lookup(w http.ResponseWriter, r *http.Request) {
	res := NewResponse(w)
	id := container.TypeID(NewRequest(r).Query("id"))
	if id == "" {
		res.BadRequest("The id parameter is required.")
		return
	}

	view := LookupView{ID: id, Registered: d.c.HasService(id)}
	if target, ok := d.c.Alias(id); ok {
		view.Alias = target
	}
	if ti, ok := d.c.Introspector().Describe(id); ok {
		view.Kind = ti.Kind.String()
		for _, p := range ti.Params {
			view.Params = append(view.Params, fmt.Sprintf("$%s %s", p.Name, p.Type))
		}
	}
	if !view.Registered && view.Alias == "" && view.Kind == "" {
		res.NotFound(fmt.Sprintf("Unknown service [%s].", id))
		return
	}
	res.Success(view)
}

// Resolve resolves an id and reports the resulting instance type.
func (d *Diagnostics) Resolve(w http.ResponseWriter, r *http.Request) {
	res := NewResponse(w)
	req := NewRequest(r)

	var body resolveRequest
	if req.IsJSON() {
		if err := req.Bind(&body); err != nil {
			res.BadRequest("Malformed JSON body.")
			return
		}
	}
	if body.ID == "" {
		body.ID = container.TypeID(req.Query("id"))
	}
	if body.ID == "" {
		res.BadRequest("The id parameter is required.")
		return
	}

	inst, err := d.c.GetServiceContext(r.Context(), body.ID)
	if err != nil {
		status := StatusFor(err)
		if status == http.StatusInternalServerError {
			d.logger.Error("diagnostic resolve failed", zap.String("type", string(body.ID)), zap.Error(err))
		}
		res.Error(status, err.Error())
		return
	}
	res.Success(ServiceView{ID: body.ID, Type: fmt.Sprintf("%T", inst)})
}

// StatusFor maps a container error to an HTTP status.
func StatusFor(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, container.ErrParameterResolution),
		errors.Is(err, container.ErrUnresolvedAbstraction),
		errors.Is(err, container.ErrNotInstantiable),
		errors.Is(err, container.ErrDependencyCycle),
		errors.Is(err, container.ErrAliasCycle),
		errors.Is(err, container.ErrResolutionTooDeep):
		return http.StatusUnprocessableEntity
	case errors.Is(err, container.ErrTypeNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
