// Package docs registers the OpenAPI description served at /swagger.
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
        "/api/auth/signin": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Sign in",
                "parameters": [
                    {"description": "Credentials", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.signInRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.signInResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.errorResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            }
        },
        "/api/auth/signup": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Create a customer account",
                "parameters": [
                    {"description": "Name, email and password", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.signUpRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/handler.signUpResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.errorResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            }
        },
        "/api/bookings": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["bookings"],
                "summary": "Book a package",
                "parameters": [
                    {"description": "Package, dates (YYYY-MM-DD or RFC 3339) and guests", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.createBookingRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"type": "object"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.errorResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handler.errorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            }
        },
        "/api/auth/signout": {
            "post": {"tags": ["auth"], "summary": "Sign out", "responses": {"204": {"description": "No Content"}}}
        },
        "/api/dashboard/{collection}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["dashboard"],
                "summary": "List records of a collection",
                "parameters": [
                    {"type": "string", "description": "Collection name", "name": "collection", "in": "path", "required": true},
                    {"type": "string", "description": "Field to sort by", "name": "sort", "in": "query"},
                    {"type": "boolean", "description": "Sort descending", "name": "desc", "in": "query"},
                    {"type": "integer", "description": "Maximum number of records", "name": "limit", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"type": "object"}}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handler.errorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["dashboard"],
                "summary": "Create a record",
                "parameters": [
                    {"type": "string", "description": "Collection name", "name": "collection", "in": "path", "required": true},
                    {"type": "string", "description": "Rejects a repeated submission of the same form", "name": "Idempotency-Key", "in": "header"}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"type": "object"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.errorResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handler.errorResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            }
        },
        "/api/dashboard/{collection}/{id}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["dashboard"],
                "summary": "Get a record by id",
                "parameters": [
                    {"type": "string", "description": "Collection name", "name": "collection", "in": "path", "required": true},
                    {"type": "string", "description": "Record id", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handler.errorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            },
            "put": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["dashboard"],
                "summary": "Replace a record",
                "parameters": [
                    {"type": "string", "description": "Collection name", "name": "collection", "in": "path", "required": true},
                    {"type": "string", "description": "Record id", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.errorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["dashboard"],
                "summary": "Delete a record",
                "parameters": [
                    {"type": "string", "description": "Collection name", "name": "collection", "in": "path", "required": true},
                    {"type": "string", "description": "Record id", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.deleteResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            }
        },
        "/api/dashboard/revenue": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["dashboard"],
                "summary": "Total completed revenue",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.revenueResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            }
        },
        "/api/dashboard/stats": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["dashboard"],
                "summary": "Dashboard statistics",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            }
        },
        "/api/bookings/{id}/status": {
            "patch": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["bookings"],
                "summary": "Change a booking's status",
                "parameters": [
                    {"type": "string", "description": "Booking id", "name": "id", "in": "path", "required": true},
                    {"description": "New status", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.updateStatusRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.errorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            }
        },
        "/api/public-content/{slug}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["content"],
                "summary": "Rendered content of a published page",
                "parameters": [
                    {"type": "string", "description": "Page slug", "name": "slug", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "handler.errorResponse": {"type": "object", "properties": {"error": {"type": "string"}}},
        "handler.deleteResponse": {"type": "object", "properties": {"id": {"type": "string"}, "deleted": {"type": "boolean"}}},
        "handler.revenueResponse": {"type": "object", "properties": {"total_revenue": {"type": "number"}}},
        "handler.signInRequest": {"type": "object", "properties": {"email": {"type": "string"}, "password": {"type": "string"}}},
        "handler.signInResponse": {"type": "object", "properties": {"token": {"type": "string"}, "session": {"type": "object"}}},
        "handler.signUpRequest": {"type": "object", "properties": {"name": {"type": "string"}, "email": {"type": "string"}, "password": {"type": "string"}}},
        "handler.signUpResponse": {"type": "object", "properties": {"user": {"type": "object"}}},
        "handler.createBookingRequest": {"type": "object", "properties": {"package_id": {"type": "string"}, "start_date": {"type": "string"}, "end_date": {"type": "string"}, "guests": {"type": "integer"}, "total_price": {"type": "number"}}},
        "handler.updateStatusRequest": {"type": "object", "properties": {"status": {"type": "string", "enum": ["PENDING", "CONFIRMED", "CANCELLED", "COMPLETED"]}}}
    },
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Travel Catalog API",
	Description:      "Admin dashboard and public content API of the travel catalog.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
