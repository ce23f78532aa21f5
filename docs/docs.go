// Package docs holds the OpenAPI document served at /openapi.json.
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
        "/api/v1/attendance/scanner/validate": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["attendance"],
                "summary": "Validate scanner credentials",
                "parameters": [
                    {"type": "string", "description": "Scanner key", "name": "X-Scanner-Key", "in": "header", "required": true},
                    {"description": "Scanner", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/model.ScannerValidateRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/model.ScannerValidateResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/model.ErrorResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/model.ErrorResponse"}},
                    "429": {"description": "Too Many Requests", "schema": {"$ref": "#/definitions/model.ErrorResponse"}}
                }
            }
        },
        "/api/v1/attendance/token": {
            "post": {
                "security": [{"BearerAuth": []}],
                "description": "Returns the proximity token for the caller's current 30-second window.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["attendance"],
                "summary": "Issue attendance token",
                "parameters": [
                    {"description": "Session", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/model.AttendanceTokenRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/model.AttendanceTokenResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/model.WindowClosedResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/model.ErrorResponse"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/model.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/model.ErrorResponse"}},
                    "504": {"description": "Gateway Timeout", "schema": {"$ref": "#/definitions/model.ErrorResponse"}}
                }
            }
        },
        "/api/v1/attendance/verify": {
            "post": {
                "description": "Authenticates the scanner, checks the token and records attendance.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["attendance"],
                "summary": "Verify scanned token",
                "parameters": [
                    {"type": "string", "description": "Scanner key", "name": "X-Scanner-Key", "in": "header", "required": true},
                    {"description": "Scan", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/model.AttendanceVerifyRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/model.AttendanceVerifyResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/model.ErrorResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/model.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/model.ErrorResponse"}},
                    "429": {"description": "Too Many Requests", "schema": {"$ref": "#/definitions/model.ErrorResponse"}},
                    "504": {"description": "Gateway Timeout", "schema": {"$ref": "#/definitions/model.ErrorResponse"}}
                }
            }
        },
        "/api/v1/me": {
            "get": {
                "security": [{"BearerAuth": []}],
                "description": "Resolves the bearer token to the caller's profile, linking it by email or phone on first use.",
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Current profile",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/model.ProfileResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/model.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/model.ErrorResponse"}}
                }
            }
        },
        "/api/v1/sessions/{id}/join": {
            "post": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["sessions"],
                "summary": "Join a workout session",
                "parameters": [
                    {"type": "string", "description": "Session ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/model.JoinSessionResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/model.ErrorResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/model.ErrorResponse"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/model.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/model.ErrorResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/model.ErrorResponse"}}
                }
            }
        },
        "/api/v1/sessions/{id}/leave": {
            "post": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["sessions"],
                "summary": "Leave a workout session",
                "parameters": [
                    {"type": "string", "description": "Session ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/model.LeaveSessionResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/model.ErrorResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/model.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/model.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "model.Attendance": {
            "type": "object",
            "properties": {
                "gym_id": {"type": "integer"},
                "marked_at": {"type": "string"},
                "scanner_id": {"type": "string"},
                "session_id": {"type": "string"},
                "source": {"type": "string"},
                "token_u32": {"type": "integer"},
                "user_id": {"type": "string"},
                "window_index": {"type": "integer"}
            }
        },
        "model.AttendanceTokenRequest": {
            "type": "object",
            "required": ["session_id"],
            "properties": {
                "session_id": {"type": "string"}
            }
        },
        "model.AttendanceTokenResponse": {
            "type": "object",
            "properties": {
                "gym_id": {"type": "integer"},
                "ibeacon": {"$ref": "#/definitions/model.Beacon"},
                "major": {"type": "integer"},
                "minor": {"type": "integer"},
                "session_id": {"type": "string"},
                "token_u32": {"type": "integer"},
                "user_id": {"type": "string"},
                "window_index": {"type": "integer"}
            }
        },
        "model.AttendanceVerifyRequest": {
            "type": "object",
            "required": ["gym_id", "scanner_id", "token_u32", "user_id"],
            "properties": {
                "gym_id": {"type": "integer"},
                "scanner_id": {"type": "string", "maxLength": 128},
                "token_u32": {"type": "integer", "maximum": 4294967295},
                "user_id": {"type": "string"}
            }
        },
        "model.AttendanceVerifyResponse": {
            "type": "object",
            "properties": {
                "attendance": {"$ref": "#/definitions/model.Attendance"},
                "ok": {"type": "boolean"},
                "session_id": {"type": "string"}
            }
        },
        "model.Beacon": {
            "type": "object",
            "properties": {
                "major": {"type": "integer"},
                "minor": {"type": "integer"},
                "proximity_uuid": {"type": "string"}
            }
        },
        "model.ErrorResponse": {
            "type": "object",
            "properties": {
                "details": {"type": "string"},
                "error": {"type": "string"}
            }
        },
        "model.JoinSessionResponse": {
            "type": "object",
            "properties": {
                "message": {"type": "string"},
                "notifications_sent": {"type": "integer"},
                "session_id": {"type": "string"}
            }
        },
        "model.LeaveSessionResponse": {
            "type": "object",
            "properties": {
                "message": {"type": "string"},
                "session_id": {"type": "string"}
            }
        },
        "model.ProfileResponse": {
            "type": "object",
            "properties": {
                "email": {"type": "string"},
                "gender": {"type": "string"},
                "id": {"type": "string"},
                "name": {"type": "string"},
                "phone": {"type": "string"}
            }
        },
        "model.ScannerValidateRequest": {
            "type": "object",
            "required": ["gym_id", "scanner_id"],
            "properties": {
                "gym_id": {"type": "integer"},
                "scanner_id": {"type": "string", "maxLength": 128}
            }
        },
        "model.ScannerValidateResponse": {
            "type": "object",
            "properties": {
                "key_hint": {"type": "string"},
                "ok": {"type": "boolean"}
            }
        },
        "model.WindowClosedResponse": {
            "type": "object",
            "properties": {
                "closes_at": {"type": "string"},
                "details": {"type": "string"},
                "error": {"type": "string"},
                "now": {"type": "string"},
                "opens_at": {"type": "string"}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Attendance API",
	Description:      "Proximity attendance tokens, scanner verification and session membership.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
