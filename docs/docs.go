// Package docs is generated by swag init from the handler annotations.
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
        "/api/v1/ai/chat": {
            "post": {
                "security": [{"Bearer": []}],
                "description": "Spends one of the caller's daily hearts. Returns 429 out_of_hearts when none are left.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["ai"],
                "summary": "Ask the AI tutor",
                "parameters": [
                    {"description": "Question", "name": "chatRequest", "in": "body", "required": true, "schema": {"$ref": "#/definitions/dto.ChatRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/shared.Response"}},
                    "429": {"description": "Too Many Requests", "schema": {"$ref": "#/definitions/shared.Response"}}
                }
            }
        },
        "/api/v1/ai/hearts": {
            "get": {
                "security": [{"Bearer": []}],
                "description": "Today's AI chat quota. Falls back to a full quota when it cannot be read.",
                "produces": ["application/json"],
                "tags": ["ai"],
                "summary": "Get remaining hearts",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/shared.Response"}}
                }
            }
        },
        "/api/v1/badges/check": {
            "post": {
                "security": [{"Bearer": []}],
                "description": "Awards every badge the caller now qualifies for and returns the new ids",
                "produces": ["application/json"],
                "tags": ["badges"],
                "summary": "Check for new badges",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/shared.Response"}}
                }
            }
        },
        "/api/v1/exercises/submit": {
            "post": {
                "security": [{"Bearer": []}],
                "description": "Grades the answers, records progress and awards XP once per lesson",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["exercises"],
                "summary": "Submit lesson answers",
                "parameters": [
                    {"description": "Answers keyed by exercise index", "name": "submitRequest", "in": "body", "required": true, "schema": {"$ref": "#/definitions/dto.SubmitExercisesRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/shared.Response"}}
                }
            }
        },
        "/ping": {
            "get": {
                "description": "This endpoint checks the health of the service",
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Ping",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/shared.Response"}}
                }
            }
        }
    },
    "definitions": {
        "dto.ChatRequest": {
            "type": "object",
            "properties": {
                "conversation_id": {"type": "string"},
                "message": {"type": "string", "example": "What is a business model canvas?"}
            }
        },
        "dto.SubmitExercisesRequest": {
            "type": "object",
            "required": ["answers", "lesson_id"],
            "properties": {
                "answers": {"type": "object", "additionalProperties": {"type": "string"}},
                "completed": {"type": "boolean"},
                "lesson_id": {"type": "string"},
                "score": {"type": "integer"}
            }
        },
        "shared.Response": {
            "type": "object",
            "properties": {
                "code": {"type": "integer"},
                "data": {},
                "message": {"type": "string"}
            }
        }
    },
    "securityDefinitions": {
        "Bearer": {"type": "apiKey", "name": "Authorization", "in": "header"}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "",
	Schemes:          []string{},
	Title:            "bloolabb API",
	Description:      "Gamified entrepreneurship learning backend",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
