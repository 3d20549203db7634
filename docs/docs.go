// Package docs holds the OpenAPI document served at /swagger.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/api/v1/operations": {
            "post": {
                "description": "Dispatches a named operation (ping, getAllPosts, getPost, getPostById, getUserPostsById, createUser, loginUser, createPost, updateById, deletePostById). Authenticated operations take a \"token\" argument. An \"id\" argument may be a string or an integer. Domain failures come back as 200 with an \"error\" field in data, or in \"errors\" for list operations.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["operations"],
                "summary": "Run an operation",
                "parameters": [
                    {
                        "description": "operation and args",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/dispatch.Request"}
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dispatch.Response"}},
                    "400": {"description": "Bad Request", "schema": {"type": "object", "additionalProperties": true}},
                    "429": {"description": "Too Many Requests", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/api/v1/logs": {
            "get": {
                "description": "Lists the caller's own create/update/delete events. Dates accept RFC3339, 'YYYY-MM-DD HH:MM:SS' or 'YYYY-MM-DD'; a date-only 'to' covers the whole day.",
                "produces": ["application/json"],
                "tags": ["logs"],
                "summary": "List post activity",
                "parameters": [
                    {"type": "string", "description": "Session token from loginUser", "name": "token", "in": "query", "required": true},
                    {"type": "string", "example": "2025-08-01", "description": "Start of range", "name": "from", "in": "query"},
                    {"type": "string", "example": "2025-08-31", "description": "End of range, inclusive", "name": "to", "in": "query"},
                    {"enum": ["CREATED", "UPDATED", "DELETED"], "type": "string", "description": "Event type", "name": "type", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.logsResponse"}},
                    "400": {"description": "Bad Request", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "401": {"description": "Unauthorized", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "500": {"description": "Internal Server Error", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/health": {
            "get": {
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Health check",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/ws": {
            "get": {
                "description": "Upgrades to a websocket and pushes {\"type\":\"posts\",\"data\":[...]} snapshots, first immediately and then on every tick. A failed snapshot is reported as {\"type\":\"error\",\"error\":msg} before the server closes.",
                "tags": ["feed"],
                "summary": "Live post feed",
                "parameters": [
                    {"type": "string", "example": "2s", "description": "Tick as a Go duration, at most 10s", "name": "interval", "in": "query"},
                    {"type": "integer", "description": "Tick in milliseconds, at most 10000", "name": "interval_ms", "in": "query"}
                ],
                "responses": {
                    "101": {"description": "Switching Protocols"}
                }
            }
        }
    },
    "definitions": {
        "dispatch.FieldError": {
            "type": "object",
            "properties": {
                "message": {"type": "string"},
                "path": {"type": "array", "items": {"type": "string"}}
            }
        },
        "dispatch.Request": {
            "type": "object",
            "properties": {
                "operation": {"type": "string", "example": "getAllPosts"},
                "args": {"type": "object"}
            }
        },
        "dispatch.Response": {
            "type": "object",
            "properties": {
                "data": {},
                "errors": {"type": "array", "items": {"$ref": "#/definitions/dispatch.FieldError"}}
            }
        },
        "handlers.logsResponse": {
            "type": "object",
            "properties": {
                "count": {"type": "integer"},
                "events": {"type": "array", "items": {"$ref": "#/definitions/models.PostEvent"}}
            }
        },
        "models.PostEvent": {
            "type": "object",
            "properties": {
                "event_id": {"type": "string"},
                "occurred_at": {"type": "string"},
                "type": {"type": "string"},
                "post_id": {"type": "string"},
                "user_id": {"type": "string"},
                "description": {"type": "string"},
                "metadata": {}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "postboard API",
	Description:      "Authenticated posts service: operations endpoint, activity log and live feed.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
