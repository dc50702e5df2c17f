package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RegisterSwagger registers minimal Swagger/OpenAPI endpoints for the auth service.
// - GET /swagger/index.html  -> a small HTML page that loads the OpenAPI JSON
// - GET /swagger/doc.json    -> machine-readable OpenAPI JSON
func RegisterSwagger(rg *gin.Engine) {
	rg.GET("/swagger/index.html", func(c *gin.Context) {
		c.Header("Content-Type", "text/html; charset=utf-8")
		c.String(http.StatusOK, swaggerHTML)
	})

	rg.GET("/swagger/doc.json", func(c *gin.Context) {
		c.Data(http.StatusOK, "application/json; charset=utf-8", []byte(swaggerJSON))
	})
}

const swaggerHTML = `<!doctype html>
<html>
  <head>
    <meta charset="utf-8" />
    <title>ielts-auth — Swagger</title>
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

// Minimal OpenAPI document describing the login and profile endpoints.
const swaggerJSON = `{
  "openapi": "3.0.0",
  "info": { "title": "ielts-auth", "version": "v0.1.0" },
  "paths": {
    "/auth/google": {
      "get": { "summary": "Begin Google OAuth flow", "responses": { "302": { "description": "redirect to Google consent screen" } } }
    },
    "/auth/google/callback": {
      "get": {
        "summary": "Complete Google OAuth flow",
        "parameters": [ { "name": "code", "in": "query", "schema": { "type": "string" } } ],
        "responses": { "302": { "description": "redirect to front-end with login=success or error=no_code|auth_failed" } }
      }
    },
    "/api/auth/google": {
      "post": {
        "summary": "Verify a Google ID token directly",
        "requestBody": { "content": { "application/json": { "schema": {"type":"object","properties":{"token":{"type":"string"}}}}}},
        "responses": { "200": { "description": "verified user" }, "400": { "description": "missing token" }, "401": { "description": "invalid token" } }
      }
    },
    "/api/profile": {
      "post": {
        "summary": "Complete a user profile",
        "requestBody": { "content": { "application/json": { "schema": {"type":"object","properties":{"id":{"type":"integer"},"first_name":{"type":"string"},"last_name":{"type":"string"},"phone":{"type":"string"},"group_name":{"type":"string"}}}}}},
        "responses": { "200": { "description": "updated user" }, "400": { "description": "missing id" }, "404": { "description": "unknown id" }, "500": { "description": "store error" } }
      }
    },
    "/api/users": {
      "get": { "summary": "List all users (admin view)", "responses": { "200": { "description": "users ordered by createdAt descending" }, "500": { "description": "store error" } } }
    },
    "/health": { "get": { "summary": "Liveness check", "responses": { "200": { "description": "healthy" } } } },
    "/ready": { "get": { "summary": "Readiness check", "responses": { "200": { "description": "ready" }, "503": { "description": "not ready" } } } }
  }
}`
