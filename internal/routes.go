package internal

import (
	"bikeprice/internal/controllers"
	"bikeprice/internal/providers"
	"net/http"
)

func InitRoutes(apiController *controllers.ApiController) providers.RouterProviderInterface {
	routers := providers.NewRouterProvider()

	routers.Get("/pricing.json", http.HandlerFunc(apiController.GetSnapshot))
	routers.Get("/api/cities", http.HandlerFunc(apiController.GetCities))
	routers.Get("/api/cities/closest", http.HandlerFunc(apiController.GetClosestCity))
	routers.Get("/api/city", http.HandlerFunc(apiController.GetCity))
	routers.Get("/geo", http.HandlerFunc(apiController.GetGeo))
	return routers
}
