package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RegisterSwagger registers the API documentation endpoints.
// - GET /swagger/index.html  -> Swagger UI page loading the document below
// - GET /swagger/doc.json    -> OpenAPI JSON
func RegisterSwagger(rg *gin.Engine) {
	rg.GET("/swagger/index.html", func(c *gin.Context) {
		c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(swaggerHTML))
	})

	rg.GET("/swagger/doc.json", func(c *gin.Context) {
		c.Data(http.StatusOK, "application/json", []byte(swaggerJSON))
	})
}

const swaggerHTML = `<!doctype html>
<html>
  <head>
    <meta charset="utf-8" />
    <title>auth-service API</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@4/swagger-ui.css" />
  </head>
  <body>
    <div id="swagger-ui"></div>
    <script src="https://unpkg.com/swagger-ui-dist@4/swagger-ui-bundle.js"></script>
    <script>
      window.ui = SwaggerUIBundle({
        url: '/swagger/doc.json',
        dom_id: '#swagger-ui',
      })
    </script>
  </body>
</html>`

const swaggerJSON = `{
  "openapi": "3.0.0",
  "info": { "title": "auth-service", "version": "v1.0.0" },
  "components": {
    "securitySchemes": {
      "accessCookie": { "type": "apiKey", "in": "cookie", "name": "accessToken" },
      "refreshCookie": { "type": "apiKey", "in": "cookie", "name": "refreshToken" }
    },
    "schemas": {
      "Error": { "type": "object", "properties": { "success": {"type":"boolean"}, "error": {"type":"string"}, "code": {"type":"string"} } },
      "User": { "type": "object", "properties": { "id": {"type":"string"}, "name": {"type":"string"}, "email": {"type":"string"} } }
    }
  },
  "paths": {
    "/api/auth/register": {
      "post": {
        "summary": "Create an account",
        "requestBody": { "content": { "application/json": { "schema": {"type":"object","required":["name","email","password"],"properties":{"name":{"type":"string"},"email":{"type":"string"},"password":{"type":"string"}}}}}},
        "responses": { "201": { "description": "user created" }, "400": { "description": "VALIDATION or DUPLICATE" } }
      }
    },
    "/api/auth/login": {
      "post": {
        "summary": "Log in and receive session cookies",
        "requestBody": { "content": { "application/json": { "schema": {"type":"object","required":["email","password"],"properties":{"email":{"type":"string"},"password":{"type":"string"}}}}}},
        "responses": { "200": { "description": "accessToken and refreshToken cookies set" }, "400": { "description": "VALIDATION" }, "401": { "description": "INVALID_CREDENTIALS" } }
      }
    },
    "/api/auth/refresh": {
      "post": { "summary": "Exchange the refresh cookie for a new access cookie", "security": [{"refreshCookie": []}], "responses": { "200": { "description": "accessToken cookie set" }, "401": { "description": "NO_REFRESH_TOKEN, REFRESH_TOKEN_EXPIRED or INVALID_REFRESH_TOKEN" } } }
    },
    "/api/auth/profile": {
      "get": { "summary": "Current user", "security": [{"accessCookie": []}], "responses": { "200": { "description": "user" }, "401": { "description": "NO_ACCESS_TOKEN, ACCESS_TOKEN_EXPIRED or INVALID_ACCESS_TOKEN" }, "404": { "description": "NOT_FOUND" } } }
    },
    "/api/auth/logout": {
      "post": { "summary": "Revoke the stored refresh token and clear cookies", "security": [{"accessCookie": []}], "responses": { "200": { "description": "logged out" }, "401": { "description": "guard rejection" } } }
    },
    "/info": { "get": { "summary": "Service information", "responses": { "200": { "description": "name, version, description, author" } } } },
    "/health": { "get": { "summary": "Liveness check", "responses": { "200": { "description": "healthy" } } } },
    "/ready": { "get": { "summary": "Readiness check", "responses": { "200": { "description": "ready" }, "503": { "description": "not ready" } } } }
  }
}`
