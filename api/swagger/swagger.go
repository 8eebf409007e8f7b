package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Scholarship Review API",
        "description": "Scholarship application review: CSV import, role scoring, review sessions and ranking",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Auth", "description": "Authentication"},
        {"name": "Editions", "description": "Edition lifecycle"},
        {"name": "Applications", "description": "Imported applicant rows"},
        {"name": "Import", "description": "CSV applicant import"},
        {"name": "Reviews", "description": "Review records and live feed"},
        {"name": "Sessions", "description": "Reviewer queue-walk sessions"},
        {"name": "Ranking", "description": "Derived ranking and exports"}
    ],
    "paths": {
        "/auth/login": {
            "post": {
                "tags": ["Auth"],
                "summary": "Authenticate with email and password",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Invalid credentials"}
                }
            }
        },
        "/auth/me": {
            "get": {
                "tags": ["Auth"],
                "summary": "Authenticated user's profile",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/editions": {
            "get": {
                "tags": ["Editions"],
                "summary": "List editions with applicant counts",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Editions"],
                "summary": "Create edition",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateEditionRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/editions/{editionId}": {
            "get": {
                "tags": ["Editions"],
                "summary": "Get edition",
                "parameters": [
                    {"name": "editionId", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "patch": {
                "tags": ["Editions"],
                "summary": "Update edition metadata",
                "parameters": [
                    {"name": "editionId", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateEditionRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "delete": {
                "tags": ["Editions"],
                "summary": "Delete edition",
                "parameters": [
                    {"name": "editionId", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "No Content"}
                }
            }
        },
        "/editions/{editionId}/import": {
            "post": {
                "tags": ["Import"],
                "summary": "Import a CSV of applicants",
                "consumes": ["multipart/form-data"],
                "parameters": [
                    {"name": "editionId", "in": "path", "required": true, "type": "string"},
                    {"name": "file", "in": "formData", "required": true, "type": "file"},
                    {"name": "async", "in": "query", "type": "boolean"}
                ],
                "responses": {
                    "200": {"description": "Import finished", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "202": {"description": "Import queued", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/imports/{runId}": {
            "get": {
                "tags": ["Import"],
                "summary": "State of an import run",
                "parameters": [
                    {"name": "runId", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/editions/{editionId}/applications": {
            "get": {
                "tags": ["Applications"],
                "summary": "List applications in import order",
                "parameters": [
                    {"name": "editionId", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/editions/{editionId}/applications/{applicationId}": {
            "get": {
                "tags": ["Applications"],
                "summary": "Get one application",
                "parameters": [
                    {"name": "editionId", "in": "path", "required": true, "type": "string"},
                    {"name": "applicationId", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/editions/{editionId}/reviews": {
            "get": {
                "tags": ["Reviews"],
                "summary": "Map of stored reviews keyed by application ID",
                "parameters": [
                    {"name": "editionId", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/editions/{editionId}/reviews/stream": {
            "get": {
                "tags": ["Reviews"],
                "summary": "Server-sent events feed of review changes",
                "produces": ["text/event-stream"],
                "parameters": [
                    {"name": "editionId", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "Event stream"}
                }
            }
        },
        "/editions/{editionId}/applications/{applicationId}/review": {
            "get": {
                "tags": ["Reviews"],
                "summary": "Get the review of one application",
                "parameters": [
                    {"name": "editionId", "in": "path", "required": true, "type": "string"},
                    {"name": "applicationId", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "put": {
                "tags": ["Reviews"],
                "summary": "Merge a partial review update",
                "parameters": [
                    {"name": "editionId", "in": "path", "required": true, "type": "string"},
                    {"name": "applicationId", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SaveReviewRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/editions/{editionId}/applications/{applicationId}/discard": {
            "post": {
                "tags": ["Reviews"],
                "summary": "Discard an application",
                "parameters": [
                    {"name": "editionId", "in": "path", "required": true, "type": "string"},
                    {"name": "applicationId", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/editions/{editionId}/applications/{applicationId}/restore": {
            "post": {
                "tags": ["Reviews"],
                "summary": "Lift a discard",
                "parameters": [
                    {"name": "editionId", "in": "path", "required": true, "type": "string"},
                    {"name": "applicationId", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/session": {
            "get": {
                "tags": ["Sessions"],
                "summary": "Active session",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "No active session"}
                }
            },
            "post": {
                "tags": ["Sessions"],
                "summary": "Start a review session",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/StartSessionRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "No pending work"}
                }
            },
            "delete": {
                "tags": ["Sessions"],
                "summary": "End the active session",
                "responses": {
                    "200": {"description": "Idle session", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/session/next": {
            "post": {
                "tags": ["Sessions"],
                "summary": "Advance to the next queue entry",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/session/previous": {
            "post": {
                "tags": ["Sessions"],
                "summary": "Step back one queue entry",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/session/jump": {
            "post": {
                "tags": ["Sessions"],
                "summary": "Jump to a queue position",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/JumpRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/session/resume": {
            "post": {
                "tags": ["Sessions"],
                "summary": "Resume, skipping completed work",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/editions/{editionId}/ranking": {
            "get": {
                "tags": ["Ranking"],
                "summary": "Live ranking, highest total first",
                "parameters": [
                    {"name": "editionId", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/editions/{editionId}/ranking/export.csv": {
            "get": {
                "tags": ["Ranking"],
                "summary": "Download the ranking as CSV",
                "produces": ["text/csv"],
                "parameters": [
                    {"name": "editionId", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "CSV file"}
                }
            }
        },
        "/editions/{editionId}/ranking/export.pdf": {
            "get": {
                "tags": ["Ranking"],
                "summary": "Download the ranking as PDF",
                "produces": ["application/pdf"],
                "parameters": [
                    {"name": "editionId", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "PDF file"}
                }
            }
        }
    },
    "definitions": {
        "LoginRequest": {
            "type": "object",
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"}
            },
            "required": ["email", "password"]
        },
        "CreateEditionRequest": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "academic_year": {"type": "string"},
                "semester": {"type": "string", "enum": ["S1", "S2"]},
                "active": {"type": "boolean"}
            },
            "required": ["name", "academic_year", "semester"]
        },
        "UpdateEditionRequest": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "academic_year": {"type": "string"},
                "semester": {"type": "string", "enum": ["S1", "S2"]},
                "active": {"type": "boolean"}
            }
        },
        "SaveReviewRequest": {
            "type": "object",
            "properties": {
                "scores": {
                    "type": "object",
                    "description": "criterion -> role -> score; numbers and numeric strings set a score, empty string clears nothing"
                },
                "verified_docs": {
                    "type": "object",
                    "additionalProperties": {"type": "boolean"}
                },
                "comment": {
                    "type": "object",
                    "properties": {"text": {"type": "string"}},
                    "required": ["text"]
                },
                "status": {"type": "string", "enum": ["not_started", "in_progress", "reviewed", "discarded"]}
            }
        },
        "StartSessionRequest": {
            "type": "object",
            "properties": {
                "edition_id": {"type": "string"}
            },
            "required": ["edition_id"]
        },
        "JumpRequest": {
            "type": "object",
            "properties": {
                "index": {"type": "integer"}
            },
            "required": ["index"]
        },
        "Pagination": {
            "type": "object",
            "properties": {
                "page": {"type": "integer"},
                "page_size": {"type": "integer"},
                "total_count": {"type": "integer"}
            }
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
                "pagination": {"$ref": "#/definitions/Pagination"},
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
