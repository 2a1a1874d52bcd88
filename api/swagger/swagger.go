package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "EKOS API",
        "description": "Ekipman Kontrol Otomasyon Sistemi - equipment inspection report API",
        "version": "1.0.0"
    },
    "basePath": "/api",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Authentication", "description": "Login and session management"},
        {"name": "Raporlar", "description": "Equipment inspection reports"},
        {"name": "Projeler", "description": "Project registry"},
        {"name": "Kategoriler", "description": "Equipment categories"},
        {"name": "Dashboard", "description": "Aggregated counters"}
    ],
    "paths": {
        "/auth/login": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Authenticate user",
                "responses": {
                    "200": {"description": "OK"},
                    "401": {"description": "Invalid credentials"}
                }
            }
        },
        "/auth/logout": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Logout current session",
                "responses": {
                    "204": {"description": "No Content"}
                }
            }
        },
        "/auth/me": {
            "get": {
                "tags": ["Authentication"],
                "summary": "Current user info",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/raporlar": {
            "get": {
                "tags": ["Raporlar"],
                "summary": "List inspection reports",
                "responses": {
                    "200": {"description": "OK"}
                }
            },
            "post": {
                "tags": ["Raporlar"],
                "summary": "Create a report",
                "responses": {
                    "201": {"description": "Created"}
                }
            }
        },
        "/raporlar/{id}": {
            "get": {
                "tags": ["Raporlar"],
                "summary": "Get a single report",
                "responses": {
                    "200": {"description": "OK"},
                    "404": {"description": "Not found"}
                }
            },
            "put": {
                "tags": ["Raporlar"],
                "summary": "Update a report",
                "responses": {
                    "200": {"description": "OK"}
                }
            },
            "delete": {
                "tags": ["Raporlar"],
                "summary": "Delete a report",
                "responses": {
                    "204": {"description": "No Content"}
                }
            }
        },
        "/raporlar/{id}/durum": {
            "patch": {
                "tags": ["Raporlar"],
                "summary": "Toggle report status",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/raporlar/{id}/medya": {
            "get": {
                "tags": ["Medya"],
                "summary": "List attachments of a report",
                "responses": {
                    "200": {"description": "OK"}
                }
            },
            "post": {
                "tags": ["Medya"],
                "summary": "Upload an attachment",
                "responses": {
                    "201": {"description": "Created"}
                }
            }
        },
        "/raporlar/bulk-delete": {
            "post": {
                "tags": ["Raporlar"],
                "summary": "Delete multiple reports",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/raporlar/zip-export": {
            "post": {
                "tags": ["Raporlar"],
                "summary": "Export selected reports as ZIP",
                "responses": {
                    "200": {"description": "ZIP archive"}
                }
            }
        },
        "/raporlar/excel-export": {
            "get": {
                "tags": ["Raporlar"],
                "summary": "Export the filtered report list as xlsx",
                "responses": {
                    "200": {"description": "Workbook"}
                }
            }
        },
        "/projeler": {
            "get": {
                "tags": ["Projeler"],
                "summary": "List projects",
                "responses": {
                    "200": {"description": "OK"}
                }
            },
            "post": {
                "tags": ["Projeler"],
                "summary": "Create a project",
                "responses": {
                    "201": {"description": "Created"}
                }
            }
        },
        "/kategoriler": {
            "get": {
                "tags": ["Kategoriler"],
                "summary": "List equipment categories",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/dashboard/stats": {
            "get": {
                "tags": ["Dashboard"],
                "summary": "Dashboard statistics",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        }
    },
    "definitions": {
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
                "pagination": {"$ref": "#/definitions/Pagination"},
                "meta": {"type": "object"}
            }
        },
        "Pagination": {
            "type": "object",
            "properties": {
                "page": {"type": "integer"},
                "per_page": {"type": "integer"},
                "total": {"type": "integer"}
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
