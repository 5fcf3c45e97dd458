// Package docs holds the OpenAPI description served at /docs.
// Regenerate with `swag init -g cmd/server/main.go` after changing handler annotations.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "license": {
            "name": "MIT",
            "url": "https://opensource.org/licenses/MIT"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/api/v1/price-chat/health": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Health"],
                "summary": "Health check",
                "responses": {
                    "200": {"description": "Service healthy", "schema": {"$ref": "#/definitions/dto.HealthResponse"}},
                    "503": {"description": "Service unhealthy", "schema": {"$ref": "#/definitions/dto.HealthResponse"}}
                }
            }
        },
        "/api/v1/price-chat/ready": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Health"],
                "summary": "Readiness check",
                "responses": {"200": {"description": "Service ready"}, "503": {"description": "Service not ready"}}
            }
        },
        "/api/v1/price-chat/live": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Health"],
                "summary": "Liveness check",
                "responses": {"200": {"description": "Service alive"}}
            }
        },
        "/api/v1/price-chat/conversations": {
            "post": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Conversations"],
                "summary": "Start a conversation",
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/dto.ConversationResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        },
        "/api/v1/price-chat/conversations/{conversationId}": {
            "delete": {
                "security": [{"BearerAuth": []}],
                "tags": ["Conversations"],
                "summary": "Reset a conversation",
                "parameters": [{"type": "string", "name": "conversationId", "in": "path", "required": true}],
                "responses": {"204": {"description": "No Content"}}
            }
        },
        "/api/v1/price-chat/conversations/{conversationId}/messages": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Conversations"],
                "summary": "Get messages",
                "parameters": [{"type": "string", "name": "conversationId", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.ConversationResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Conversations"],
                "summary": "Send a message",
                "parameters": [
                    {"type": "string", "name": "conversationId", "in": "path", "required": true},
                    {"name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/dto.SendMessageRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.ConversationResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        },
        "/api/v1/price-chat/conversations/{conversationId}/archive": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Conversations"],
                "summary": "Get archived messages",
                "parameters": [
                    {"type": "string", "name": "conversationId", "in": "path", "required": true},
                    {"type": "integer", "default": 50, "maximum": 200, "minimum": 1, "name": "limit", "in": "query"},
                    {"type": "integer", "default": 0, "minimum": 0, "name": "offset", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.ArchiveResponse"}},
                    "503": {"description": "Archive disabled", "schema": {"$ref": "#/definitions/dto.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "dto.ErrorResponse": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "details": {"type": "string"}
            }
        },
        "dto.HealthResponse": {
            "type": "object",
            "properties": {
                "status": {"type": "string"},
                "components": {"type": "object", "additionalProperties": {"type": "string"}}
            }
        },
        "dto.SendMessageRequest": {
            "type": "object",
            "required": ["content"],
            "properties": {"content": {"type": "string", "maxLength": 4000}}
        },
        "models.ToolCall": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "name": {"type": "string"},
                "arguments": {"type": "string"}
            }
        },
        "dto.MessageResponse": {
            "type": "object",
            "properties": {
                "role": {"type": "string"},
                "content": {"type": "string"},
                "toolCalls": {"type": "array", "items": {"$ref": "#/definitions/models.ToolCall"}},
                "toolCallId": {"type": "string"},
                "loading": {"type": "boolean"}
            }
        },
        "dto.ConversationResponse": {
            "type": "object",
            "properties": {
                "conversationId": {"type": "string"},
                "state": {"type": "string"},
                "messages": {"type": "array", "items": {"$ref": "#/definitions/dto.MessageResponse"}}
            }
        },
        "models.Record": {
            "type": "object",
            "properties": {
                "conversationId": {"type": "string"},
                "sequence": {"type": "integer"},
                "role": {"type": "string"},
                "content": {"type": "string"},
                "toolCalls": {"type": "array", "items": {"$ref": "#/definitions/models.ToolCall"}},
                "toolCallId": {"type": "string"},
                "createdAt": {"type": "string"}
            }
        },
        "dto.ArchiveResponse": {
            "type": "object",
            "properties": {
                "conversationId": {"type": "string"},
                "messages": {"type": "array", "items": {"$ref": "#/definitions/models.Record"}},
                "limit": {"type": "integer"},
                "offset": {"type": "integer"}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "description": "Static bearer key (SERVER_API_KEY)",
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8085",
	BasePath:         "/",
	Schemes:          []string{"http", "https"},
	Title:            "Price Chat API",
	Description:      "Conversational supermarket price lookup for Colombia",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
