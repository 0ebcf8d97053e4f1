package chi

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"
)

// ServerInterface lists the handlers mounted by HandlerWithOptions.
type ServerInterface interface {
	// GET /api/v1/{category}/search
	SearchEntities(w http.ResponseWriter, r *http.Request, category string, params SearchParams)
	// GET /api/v1/{category}/suggest
	SuggestEntities(w http.ResponseWriter, r *http.Request, category string, params SuggestParams)
	// GET /api/v1/{category}/entities/{id}/recommendations
	RecommendEntities(w http.ResponseWriter, r *http.Request, category string, id int)
	// GET /health
	HealthCheck(w http.ResponseWriter, r *http.Request)
	// GET /metrics
	Metrics(w http.ResponseWriter, r *http.Request)
}

// SearchParams are the query parameters of SearchEntities.
type SearchParams struct {
	Q string `form:"q" json:"q"`
}

// SuggestParams are the query parameters of SuggestEntities.
type SuggestParams struct {
	Q string `form:"q" json:"q"`
}

// MiddlewareFunc wraps a single handler.
type MiddlewareFunc func(http.Handler) http.Handler

// ChiServerOptions configures HandlerWithOptions.
type ChiServerOptions struct {
	BaseURL          string
	BaseRouter       chi.Router
	Middlewares      []MiddlewareFunc
	ErrorHandlerFunc func(w http.ResponseWriter, r *http.Request, err error)
}

// InvalidParamFormatError reports a parameter that failed to bind.
type InvalidParamFormatError struct {
	ParamName string
	Err       error
}

func (e *InvalidParamFormatError) Error() string {
	return fmt.Sprintf("invalid format for parameter %s: %s", e.ParamName, e.Err.Error())
}

func (e *InvalidParamFormatError) Unwrap() error { return e.Err }

type serverInterfaceWrapper struct {
	handler          ServerInterface
	middlewares      []MiddlewareFunc
	errorHandlerFunc func(w http.ResponseWriter, r *http.Request, err error)
}

func (siw *serverInterfaceWrapper) wrap(h http.Handler) http.Handler {
	for _, m := range siw.middlewares {
		h = m(h)
	}
	return h
}

func (siw *serverInterfaceWrapper) bindCategory(w http.ResponseWriter, r *http.Request) (string, bool) {
	var category string
	err := runtime.BindStyledParameterWithOptions("simple", "category", chi.URLParam(r, "category"), &category,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		siw.errorHandlerFunc(w, r, &InvalidParamFormatError{ParamName: "category", Err: err})
		return "", false
	}
	return category, true
}

func (siw *serverInterfaceWrapper) bindQuery(w http.ResponseWriter, r *http.Request) (string, bool) {
	var q string
	if err := runtime.BindQueryParameter("form", true, false, "q", r.URL.Query(), &q); err != nil {
		siw.errorHandlerFunc(w, r, &InvalidParamFormatError{ParamName: "q", Err: err})
		return "", false
	}
	return q, true
}

func (siw *serverInterfaceWrapper) SearchEntities(w http.ResponseWriter, r *http.Request) {
	category, ok := siw.bindCategory(w, r)
	if !ok {
		return
	}
	q, ok := siw.bindQuery(w, r)
	if !ok {
		return
	}
	siw.wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		siw.handler.SearchEntities(w, r, category, SearchParams{Q: q})
	})).ServeHTTP(w, r)
}

func (siw *serverInterfaceWrapper) SuggestEntities(w http.ResponseWriter, r *http.Request) {
	category, ok := siw.bindCategory(w, r)
	if !ok {
		return
	}
	q, ok := siw.bindQuery(w, r)
	if !ok {
		return
	}
	siw.wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		siw.handler.SuggestEntities(w, r, category, SuggestParams{Q: q})
	})).ServeHTTP(w, r)
}

func (siw *serverInterfaceWrapper) RecommendEntities(w http.ResponseWriter, r *http.Request) {
	category, ok := siw.bindCategory(w, r)
	if !ok {
		return
	}
	var id int
	err := runtime.BindStyledParameterWithOptions("simple", "id", chi.URLParam(r, "id"), &id,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		siw.errorHandlerFunc(w, r, &InvalidParamFormatError{ParamName: "id", Err: err})
		return
	}
	siw.wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		siw.handler.RecommendEntities(w, r, category, id)
	})).ServeHTTP(w, r)
}

func (siw *serverInterfaceWrapper) HealthCheck(w http.ResponseWriter, r *http.Request) {
	siw.wrap(http.HandlerFunc(siw.handler.HealthCheck)).ServeHTTP(w, r)
}

func (siw *serverInterfaceWrapper) Metrics(w http.ResponseWriter, r *http.Request) {
	siw.wrap(http.HandlerFunc(siw.handler.Metrics)).ServeHTTP(w, r)
}

// HandlerWithOptions mounts si on a chi router.
func HandlerWithOptions(si ServerInterface, options ChiServerOptions) http.Handler {
	r := options.BaseRouter
	if r == nil {
		r = chi.NewRouter()
	}
	if options.ErrorHandlerFunc == nil {
		options.ErrorHandlerFunc = func(w http.ResponseWriter, _ *http.Request, err error) {
			http.Error(w, err.Error(), http.StatusBadRequest)
		}
	}
	wrapper := &serverInterfaceWrapper{
		handler:          si,
		middlewares:      options.Middlewares,
		errorHandlerFunc: options.ErrorHandlerFunc,
	}

	r.Group(func(r chi.Router) {
		r.Get(options.BaseURL+"/api/v1/{category}/search", wrapper.SearchEntities)
		r.Get(options.BaseURL+"/api/v1/{category}/suggest", wrapper.SuggestEntities)
		r.Get(options.BaseURL+"/api/v1/{category}/entities/{id}/recommendations", wrapper.RecommendEntities)
		r.Get(options.BaseURL+"/health", wrapper.HealthCheck)
		r.Get(options.BaseURL+"/metrics", wrapper.Metrics)
	})
	return r
}
