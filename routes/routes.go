package routes

import (
	"catalog-import-service/controllers"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes wires all application routes to their controllers.
func RegisterRoutes(r *gin.Engine, importController *controllers.ImportController, searchController *controllers.SearchController) {
	importRoutes := r.Group("/import")
	{
		importRoutes.POST("/validate", importController.ValidateImport)
		importRoutes.POST("/preview", importController.PreviewImport)
		importRoutes.POST("/products", importController.ImportProducts)
		importRoutes.GET("/jobs/:id", importController.GetJobStatus)
	}

	searchRoutes := r.Group("/search")
	{
		searchRoutes.POST("/suggest", searchController.Suggest)
		searchRoutes.GET("/recent", searchController.RecentSearches)
	}
}
