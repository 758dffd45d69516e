package handlers

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"complianceserver/docs"
)

// RegisterSwaggerRoutes регистрирует маршруты Swagger UI в Gin роутере
func RegisterSwaggerRoutes(router *gin.Engine) {
	// Информация о Swagger из сгенерированной документации
	docs.SwaggerInfo.Host = "localhost:9999"
	docs.SwaggerInfo.BasePath = "/api"
	docs.SwaggerInfo.Schemes = []string{"http", "https"}

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))
}
