package providers

import (
	"bikeprice/internal/structures"
	"github.com/julienschmidt/httprouter"
	"net/http"
)

type RouterProviderInterface interface {
	Get(url string, handler http.Handler)
	Post(url string, handler http.Handler)
	GetRoutes() []structures.Route
	Handler() http.Handler
}

type RouterProvider struct {
	routes []structures.Route
}

func (rp *RouterProvider) Get(url string, handler http.Handler) {
	rp.routes = append(rp.routes, structures.Route{
		Method:  http.MethodGet,
		Url:     url,
		Handler: handler,
	})
}

func (rp *RouterProvider) Post(url string, handler http.Handler) {
	rp.routes = append(rp.routes, structures.Route{
		Method:  http.MethodPost,
		Url:     url,
		Handler: handler,
	})
}

func (rp *RouterProvider) GetRoutes() []structures.Route {
	return rp.routes
}

// Handler builds an httprouter with every registered route. Unknown methods on
// a known path get 405, HEAD is served by GET handlers.
func (rp *RouterProvider) Handler() http.Handler {
	router := httprouter.New()
	router.HandleMethodNotAllowed = true
	router.MethodNotAllowed = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
	})
	router.NotFound = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "Not Found", http.StatusNotFound)
	})

	for _, route := range rp.routes {
		router.Handler(route.Method, route.Url, route.Handler)
		if route.Method == http.MethodGet {
			router.Handler(http.MethodHead, route.Url, route.Handler)
		}
	}
	return router
}

func NewRouterProvider() RouterProviderInterface {
	return &RouterProvider{}
}
