package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Neyveli e-Notice Board API",
        "description": "Notices, archival and dashboard counters for the municipal notice board",
        "version": "1.0.0"
    },
    "basePath": "/",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Notices", "description": "Notice lifecycle"},
        {"name": "Stats", "description": "Dashboard counters"}
    ],
    "paths": {
        "/health": {
            "get": {
                "summary": "Health check",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/ready": {
            "get": {
                "summary": "Readiness check",
                "responses": {
                    "200": {"description": "Ready"},
                    "503": {"description": "A dependency is down"}
                }
            }
        },
        "/api/notices": {
            "get": {
                "tags": ["Notices"],
                "summary": "List notices",
                "description": "Urgent first, then newest posting date.",
                "parameters": [
                    {"name": "category", "in": "query", "type": "string"},
                    {"name": "priority", "in": "query", "type": "boolean"},
                    {"name": "search", "in": "query", "type": "string", "description": "Case-insensitive substring of title or content"},
                    {"name": "archived", "in": "query", "type": "boolean", "default": false}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/Notice"}}},
                    "400": {"description": "Bad query", "schema": {"$ref": "#/definitions/Error"}},
                    "500": {"description": "Internal error", "schema": {"$ref": "#/definitions/Error"}}
                }
            },
            "post": {
                "tags": ["Notices"],
                "summary": "Create notice",
                "consumes": ["multipart/form-data"],
                "parameters": [
                    {"name": "title", "in": "formData", "type": "string", "required": true},
                    {"name": "title_ta", "in": "formData", "type": "string"},
                    {"name": "content", "in": "formData", "type": "string", "required": true},
                    {"name": "content_ta", "in": "formData", "type": "string"},
                    {"name": "category", "in": "formData", "type": "string", "required": true},
                    {"name": "priority", "in": "formData", "type": "boolean"},
                    {"name": "expiry_date", "in": "formData", "type": "string", "format": "date", "required": true},
                    {"name": "link", "in": "formData", "type": "string"},
                    {"name": "file", "in": "formData", "type": "file"}
                ],
                "responses": {
                    "200": {"description": "Created", "schema": {"$ref": "#/definitions/Created"}},
                    "400": {"description": "Invalid payload", "schema": {"$ref": "#/definitions/Error"}}
                }
            }
        },
        "/api/notices/export": {
            "get": {
                "tags": ["Notices"],
                "summary": "Export notices for printing",
                "produces": ["text/csv", "application/pdf"],
                "parameters": [
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf"], "default": "csv"},
                    {"name": "category", "in": "query", "type": "string"},
                    {"name": "priority", "in": "query", "type": "boolean"},
                    {"name": "search", "in": "query", "type": "string"},
                    {"name": "archived", "in": "query", "type": "boolean"}
                ],
                "responses": {
                    "200": {"description": "File", "schema": {"type": "file"}},
                    "400": {"description": "Unknown format", "schema": {"$ref": "#/definitions/Error"}}
                }
            }
        },
        "/api/notices/{id}": {
            "get": {
                "tags": ["Notices"],
                "summary": "Get notice",
                "parameters": [
                    {"name": "id", "in": "path", "type": "integer", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/Notice"}},
                    "404": {"description": "Notice not found", "schema": {"$ref": "#/definitions/Error"}}
                }
            },
            "put": {
                "tags": ["Notices"],
                "summary": "Update notice",
                "description": "Applies only the supplied fields. An unknown id succeeds without effect.",
                "consumes": ["multipart/form-data"],
                "parameters": [
                    {"name": "id", "in": "path", "type": "integer", "required": true},
                    {"name": "title", "in": "formData", "type": "string"},
                    {"name": "title_ta", "in": "formData", "type": "string"},
                    {"name": "content", "in": "formData", "type": "string"},
                    {"name": "content_ta", "in": "formData", "type": "string"},
                    {"name": "category", "in": "formData", "type": "string"},
                    {"name": "priority", "in": "formData", "type": "boolean"},
                    {"name": "expiry_date", "in": "formData", "type": "string", "format": "date"},
                    {"name": "link", "in": "formData", "type": "string"},
                    {"name": "file", "in": "formData", "type": "file"}
                ],
                "responses": {
                    "200": {"description": "Updated", "schema": {"$ref": "#/definitions/Message"}},
                    "400": {"description": "Invalid payload", "schema": {"$ref": "#/definitions/Error"}}
                }
            },
            "delete": {
                "tags": ["Notices"],
                "summary": "Delete notice",
                "parameters": [
                    {"name": "id", "in": "path", "type": "integer", "required": true}
                ],
                "responses": {
                    "200": {"description": "Deleted", "schema": {"$ref": "#/definitions/Message"}}
                }
            }
        },
        "/api/notices/{id}/archive": {
            "put": {
                "tags": ["Notices"],
                "summary": "Archive notice",
                "parameters": [
                    {"name": "id", "in": "path", "type": "integer", "required": true}
                ],
                "responses": {
                    "200": {"description": "Archived", "schema": {"$ref": "#/definitions/Message"}}
                }
            }
        },
        "/api/stats": {
            "get": {
                "tags": ["Stats"],
                "summary": "Notice counters",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/Stats"}},
                    "500": {"description": "Internal error", "schema": {"$ref": "#/definitions/Error"}}
                }
            }
        }
    },
    "definitions": {
        "Notice": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "title": {"type": "string"},
                "title_ta": {"type": "string", "x-nullable": true},
                "content": {"type": "string"},
                "content_ta": {"type": "string", "x-nullable": true},
                "category": {"type": "string"},
                "priority": {"type": "boolean"},
                "date_posted": {"type": "string", "format": "date"},
                "expiry_date": {"type": "string", "format": "date"},
                "link": {"type": "string", "x-nullable": true},
                "file_path": {"type": "string", "x-nullable": true},
                "created_at": {"type": "string", "format": "date-time"},
                "updated_at": {"type": "string", "format": "date-time"},
                "is_archived": {"type": "boolean"}
            }
        },
        "Stats": {
            "type": "object",
            "properties": {
                "totalActive": {"type": "integer"},
                "totalUrgent": {"type": "integer"},
                "totalToday": {"type": "integer"},
                "totalArchived": {"type": "integer"}
            }
        },
        "Created": {
            "type": "object",
            "properties": {
                "id": {"type": "integer"},
                "message": {"type": "string"}
            }
        },
        "Message": {
            "type": "object",
            "properties": {
                "message": {"type": "string"}
            }
        },
        "Error": {
            "type": "object",
            "properties": {
                "error": {"type": "string"}
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
