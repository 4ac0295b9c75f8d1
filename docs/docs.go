// Package docs registers the Swagger 2.0 document served at /swagger/.
// It is maintained by hand; keep it in sync with the controller annotations.
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
        "/admin/decisions": {
            "post": {
                "security": [{"BearerAuth": []}],
                "description": "Emails the patient behind a stored invite that the requested appointment was approved or declined.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["admin"],
                "summary": "Approve or decline a request",
                "parameters": [
                    {
                        "description": "Decision",
                        "name": "body",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/controllers.DecisionRequest"}
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/controllers.DecisionSuccessResponse"}},
                    "400": {"description": "error.code: bad_request", "schema": {"$ref": "#/definitions/helpers.APIResponse"}},
                    "401": {"description": "error.code: unauthorized", "schema": {"$ref": "#/definitions/helpers.APIResponse"}},
                    "404": {"description": "error.code: not_found", "schema": {"$ref": "#/definitions/helpers.APIResponse"}},
                    "500": {"description": "error.code: internal_error", "schema": {"$ref": "#/definitions/helpers.APIResponse"}},
                    "502": {"description": "error.code: bad_gateway", "schema": {"$ref": "#/definitions/helpers.APIResponse"}}
                }
            }
        },
        "/admin/invites": {
            "get": {
                "security": [{"BearerAuth": []}],
                "description": "Returns stored appointment invites, newest first, decoded into summaries.",
                "produces": ["application/json"],
                "tags": ["admin"],
                "summary": "List stored invites",
                "parameters": [
                    {"type": "integer", "default": 1, "description": "Page number", "name": "page", "in": "query"},
                    {"type": "integer", "default": 20, "description": "Page size (max 100)", "name": "page_size", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/controllers.ListInvitesSuccessResponse"}},
                    "401": {"description": "error.code: unauthorized", "schema": {"$ref": "#/definitions/helpers.APIResponse"}},
                    "500": {"description": "error.code: internal_error", "schema": {"$ref": "#/definitions/helpers.APIResponse"}}
                }
            }
        },
        "/admin/invites/{key}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["admin"],
                "summary": "Get one stored invite",
                "parameters": [
                    {"type": "string", "description": "Invite key", "name": "key", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/controllers.InviteDetailSuccessResponse"}},
                    "401": {"description": "error.code: unauthorized", "schema": {"$ref": "#/definitions/helpers.APIResponse"}},
                    "404": {"description": "error.code: not_found", "schema": {"$ref": "#/definitions/helpers.APIResponse"}},
                    "500": {"description": "error.code: internal_error", "schema": {"$ref": "#/definitions/helpers.APIResponse"}}
                }
            }
        },
        "/admin/login": {
            "post": {
                "description": "Exchanges the shared practice password for a Bearer token.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["admin"],
                "summary": "Admin login",
                "parameters": [
                    {
                        "description": "Admin password",
                        "name": "body",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/controllers.AdminLoginRequest"}
                    }
                ],
                "responses": {
                    "200": {"description": "data contains token and token_type", "schema": {"$ref": "#/definitions/controllers.AdminLoginSuccessResponse"}},
                    "400": {"description": "error.code: bad_request", "schema": {"$ref": "#/definitions/helpers.APIResponse"}},
                    "401": {"description": "error.code: unauthorized", "schema": {"$ref": "#/definitions/helpers.APIResponse"}},
                    "429": {"description": "error.code: too_many_requests", "schema": {"$ref": "#/definitions/helpers.APIResponse"}},
                    "500": {"description": "error.code: internal_error", "schema": {"$ref": "#/definitions/helpers.APIResponse"}}
                }
            }
        },
        "/appointments": {
            "post": {
                "description": "Validates the form, stores the generated calendar invite and emails the practice and the patient. Validation and delivery failures are reported with success=false and HTTP 200 so the form script can show the message.",
                "consumes": ["application/x-www-form-urlencoded", "multipart/form-data"],
                "produces": ["application/json"],
                "tags": ["appointments"],
                "summary": "Submit an appointment request",
                "parameters": [
                    {"type": "string", "description": "First name", "name": "firstName", "in": "formData", "required": true},
                    {"type": "string", "description": "Last name", "name": "lastName", "in": "formData", "required": true},
                    {"type": "string", "description": "Birthdate (YYYY-MM-DD)", "name": "birthdate", "in": "formData", "required": true},
                    {"type": "string", "description": "gesetzlich, privat or selbstzahler", "name": "insurance", "in": "formData", "required": true},
                    {"type": "string", "description": "Email address", "name": "email", "in": "formData", "required": true},
                    {"type": "string", "description": "Phone number", "name": "phone", "in": "formData", "required": true},
                    {"type": "string", "description": "Requested date (YYYY-MM-DD), at least tomorrow", "name": "appointmentDate", "in": "formData", "required": true},
                    {"type": "string", "description": "Requested time (HH:MM)", "name": "appointmentTime", "in": "formData"},
                    {"type": "string", "description": "Reason code", "name": "reason", "in": "formData", "required": true},
                    {"type": "string", "description": "Free text", "name": "message", "in": "formData"},
                    {"type": "string", "description": "Privacy checkbox, any value", "name": "privacy", "in": "formData", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/helpers.FormResult"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/helpers.FormResult"}},
                    "405": {"description": "Method Not Allowed", "schema": {"$ref": "#/definitions/helpers.FormResult"}},
                    "429": {"description": "Too Many Requests", "schema": {"$ref": "#/definitions/helpers.FormResult"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/helpers.FormResult"}}
                }
            }
        },
        "/termine/{file}": {
            "get": {
                "description": "Returns the iCalendar file written for an appointment request.",
                "produces": ["text/calendar"],
                "tags": ["appointments"],
                "summary": "Download a stored invite",
                "parameters": [
                    {"type": "string", "description": "<key>.ics", "name": "file", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "iCalendar text", "schema": {"type": "string"}},
                    "404": {"description": "not found", "schema": {"type": "string"}}
                }
            }
        }
    },
    "definitions": {
        "controllers.AdminLoginRequest": {
            "type": "object",
            "properties": {"password": {"type": "string"}}
        },
        "controllers.AdminLoginResponse": {
            "type": "object",
            "properties": {
                "expires_in": {"type": "integer"},
                "token": {"type": "string"},
                "token_type": {"type": "string"}
            }
        },
        "controllers.AdminLoginSuccessResponse": {
            "type": "object",
            "properties": {
                "data": {"$ref": "#/definitions/controllers.AdminLoginResponse"},
                "error": {"$ref": "#/definitions/helpers.APIError"}
            }
        },
        "controllers.DecisionRequest": {
            "type": "object",
            "properties": {
                "invite_key": {"type": "string"},
                "status": {"type": "string"}
            }
        },
        "controllers.DecisionSuccessResponse": {
            "type": "object",
            "properties": {
                "data": {"$ref": "#/definitions/domain.DecisionResult"},
                "error": {"$ref": "#/definitions/helpers.APIError"}
            }
        },
        "controllers.InviteDetailResponse": {
            "type": "object",
            "properties": {
                "ics": {"type": "string"},
                "summary": {"$ref": "#/definitions/domain.InviteSummary"}
            }
        },
        "controllers.InviteDetailSuccessResponse": {
            "type": "object",
            "properties": {
                "data": {"$ref": "#/definitions/controllers.InviteDetailResponse"},
                "error": {"$ref": "#/definitions/helpers.APIError"}
            }
        },
        "controllers.ListInvitesResponse": {
            "type": "object",
            "properties": {
                "items": {"type": "array", "items": {"$ref": "#/definitions/domain.InviteSummary"}},
                "pagination": {"$ref": "#/definitions/helpers.PaginationMeta"}
            }
        },
        "controllers.ListInvitesSuccessResponse": {
            "type": "object",
            "properties": {
                "data": {"$ref": "#/definitions/controllers.ListInvitesResponse"},
                "error": {"$ref": "#/definitions/helpers.APIError"}
            }
        },
        "domain.DecisionResult": {
            "type": "object",
            "properties": {
                "invite_key": {"type": "string"},
                "sent_at": {"type": "string"},
                "sent_to": {"type": "string"},
                "status": {"type": "string", "enum": ["approved", "declined"]}
            }
        },
        "domain.InviteSummary": {
            "type": "object",
            "properties": {
                "attendee_email": {"type": "string"},
                "attendee_name": {"type": "string"},
                "created_at": {"type": "string"},
                "end": {"type": "string"},
                "key": {"type": "string"},
                "start": {"type": "string"},
                "status": {"type": "string"},
                "summary": {"type": "string"},
                "uid": {"type": "string"}
            }
        },
        "helpers.APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"}
            }
        },
        "helpers.APIResponse": {
            "type": "object",
            "properties": {
                "data": {},
                "error": {"$ref": "#/definitions/helpers.APIError"}
            }
        },
        "helpers.FormResult": {
            "type": "object",
            "properties": {
                "confirmationSent": {"type": "boolean"},
                "inviteId": {"type": "string"},
                "message": {"type": "string"},
                "success": {"type": "boolean"}
            }
        },
        "helpers.PaginationMeta": {
            "type": "object",
            "properties": {
                "page": {"type": "integer"},
                "page_size": {"type": "integer"},
                "total": {"type": "integer"},
                "total_pages": {"type": "integer"}
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
	Title:            "Arztpraxis Terminanfrage API",
	Description:      "Appointment-request form handler of the practice: validates requests, emails the practice and the patient with an iCalendar invite, and offers an admin area for stored requests.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
