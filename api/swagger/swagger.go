package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Parts Order API",
        "description": "Consumables and parts ordering workflow backed by a shared workbook",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    },
    "tags": [
        {"name": "Authentication", "description": "Login and account credentials"},
        {"name": "Requests", "description": "Request lifecycle"},
        {"name": "Dashboard", "description": "Status summaries"},
        {"name": "Codes", "description": "Dropdown code tables"},
        {"name": "Admin", "description": "Accounts, master data and bulk operations"}
    ],
    "paths": {
        "/auth/login": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Authenticate user",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Invalid credentials"}
                }
            }
        },
        "/auth/change-password": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Change password",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ChangePasswordRequest"}}
                ],
                "responses": {
                    "204": {"description": "No Content"}
                }
            }
        },
        "/auth/me": {
            "get": {
                "tags": ["Authentication"],
                "summary": "Current user identity",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/requests": {
            "post": {
                "tags": ["Requests"],
                "summary": "Submit a new request",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateRequestInput"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "200": {"description": "Duplicate detected", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "get": {
                "tags": ["Requests"],
                "summary": "List all requests (admin)",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "status", "in": "query", "type": "string"},
                    {"name": "requesterId", "in": "query", "type": "string"},
                    {"name": "assetNo", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/requests/my": {
            "get": {
                "tags": ["Requests"],
                "summary": "The caller's own requests",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/requests/{requestNo}": {
            "get": {
                "tags": ["Requests"],
                "summary": "One request by number",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "requestNo", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not Found"}
                }
            }
        },
        "/requests/{requestNo}/status": {
            "patch": {
                "tags": ["Requests"],
                "summary": "Transition a request to a new status",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "requestNo", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateStatusInput"}}
                ],
                "responses": {
                    "204": {"description": "No Content"},
                    "409": {"description": "Transition not allowed"}
                }
            }
        },
        "/requests/{requestNo}/cancel": {
            "post": {
                "tags": ["Requests"],
                "summary": "Cancel an unprocessed request",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "requestNo", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "No Content"}
                }
            }
        },
        "/requests/{requestNo}/receipt": {
            "post": {
                "tags": ["Requests"],
                "summary": "Confirm receipt of a completed order",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "requestNo", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "No Content"}
                }
            }
        },
        "/dashboard": {
            "get": {
                "tags": ["Dashboard"],
                "summary": "Dashboard summary",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "startDate", "in": "query", "type": "string"},
                    {"name": "endDate", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/codes/regions": {
            "get": {
                "tags": ["Codes"],
                "summary": "Region codes",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/codes/teams": {
            "get": {
                "tags": ["Codes"],
                "summary": "Team codes",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "region", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/codes/delivery-places": {
            "get": {
                "tags": ["Codes"],
                "summary": "Delivery places",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "team", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/admin/users": {
            "get": {
                "tags": ["Admin"],
                "summary": "All accounts",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Admin"],
                "summary": "Register an account",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateUserInput"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/admin/users/{userId}": {
            "patch": {
                "tags": ["Admin"],
                "summary": "Update an account",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "userId", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateUserInput"}}
                ],
                "responses": {
                    "204": {"description": "No Content"}
                }
            }
        },
        "/admin/delivery-places": {
            "post": {
                "tags": ["Admin"],
                "summary": "Register a delivery place",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateDeliveryPlaceInput"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "patch": {
                "tags": ["Admin"],
                "summary": "Update a delivery place",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "name", "in": "query", "required": true, "type": "string"},
                    {"name": "team", "in": "query", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "No Content"}
                }
            }
        },
        "/admin/import": {
            "post": {
                "tags": ["Admin"],
                "summary": "Bulk import a roster or delivery place CSV",
                "security": [{"BearerAuth": []}],
                "consumes": ["multipart/form-data"],
                "parameters": [
                    {"name": "file", "in": "formData", "required": true, "type": "file"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/admin/export": {
            "get": {
                "tags": ["Admin"],
                "summary": "Download the master workbook",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "Workbook file"}
                }
            }
        },
        "/admin/report": {
            "get": {
                "tags": ["Admin"],
                "summary": "Render the request list as CSV or PDF",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "format", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "Report file"}
                }
            }
        },
        "/admin/logs": {
            "get": {
                "tags": ["Admin"],
                "summary": "Audit trail entries",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "definitions": {
        "LoginRequest": {
            "type": "object",
            "properties": {
                "userId": {"type": "string"},
                "password": {"type": "string"}
            },
            "required": ["userId", "password"]
        },
        "ChangePasswordRequest": {
            "type": "object",
            "properties": {
                "oldPassword": {"type": "string"},
                "newPassword": {"type": "string"}
            },
            "required": ["newPassword"]
        },
        "CreateRequestInput": {
            "type": "object",
            "properties": {
                "itemName": {"type": "string"},
                "modelName": {"type": "string"},
                "serialNo": {"type": "string"},
                "quantity": {"type": "integer"},
                "assetNo": {"type": "string"},
                "deliveryPlace": {"type": "string"},
                "phone": {"type": "string"},
                "company": {"type": "string"},
                "remarks": {"type": "string"},
                "region": {"type": "string"},
                "photoBase64": {"type": "string"}
            },
            "required": ["itemName", "quantity", "assetNo", "photoBase64"]
        },
        "UpdateStatusInput": {
            "type": "object",
            "properties": {
                "status": {"type": "string"},
                "remarks": {"type": "string"},
                "handler": {"type": "string"},
                "expectedDeliveryDate": {"type": "string"}
            },
            "required": ["status"]
        },
        "CreateUserInput": {
            "type": "object",
            "properties": {
                "userId": {"type": "string"},
                "name": {"type": "string"},
                "employeeCode": {"type": "string"},
                "team": {"type": "string"},
                "region": {"type": "string"},
                "role": {"type": "string"},
                "password": {"type": "string"}
            },
            "required": ["userId", "name"]
        },
        "UpdateUserInput": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "employeeCode": {"type": "string"},
                "team": {"type": "string"},
                "region": {"type": "string"},
                "role": {"type": "string"},
                "active": {"type": "boolean"},
                "password": {"type": "string"}
            }
        },
        "CreateDeliveryPlaceInput": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "team": {"type": "string"},
                "address": {"type": "string"},
                "contact": {"type": "string"},
                "manager": {"type": "string"},
                "remarks": {"type": "string"}
            },
            "required": ["name", "team"]
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
                "meta": {"type": "object"}
            }
        }
    }
}`

type swaggerDoc struct{}

// ReadDoc returns the Swagger document.
func (s *swaggerDoc) ReadDoc() string {
	return docTemplate
}

func init() {
	swag.Register(swag.Name, &swaggerDoc{})
}
