package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Campus Timetable API",
        "description": "Weekly class-session allocator with hour reconciliation and exportable reports",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Timetables", "description": "Timetable generation and audit"},
        {"name": "Reports", "description": "Asynchronous report exports"}
    ],
    "paths": {
        "/timetables/generate": {
            "post": {
                "tags": ["Timetables"],
                "summary": "Generate a weekly timetable for the submitted course and room tables",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/GenerateTimetableRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/timetables/runs/{id}": {
            "get": {
                "tags": ["Timetables"],
                "summary": "Fetch a generation run",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Run not found or expired"}
                }
            }
        },
        "/timetables/runs/{id}/audit": {
            "get": {
                "tags": ["Timetables"],
                "summary": "Fetch the hour-reconciliation report of a run",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Run not found or expired"}
                }
            }
        },
        "/timetables/runs/{id}/faculty": {
            "get": {
                "tags": ["Timetables"],
                "summary": "Fetch one faculty member's schedule within a run",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "faculty", "in": "query", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Run not found or expired"}
                }
            }
        },
        "/timetables/runs/{id}/save": {
            "post": {
                "tags": ["Timetables"],
                "summary": "Persist a generation run",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "412": {"description": "Persistence not configured"}
                }
            }
        },
        "/reports": {
            "post": {
                "tags": ["Reports"],
                "summary": "Enqueue an export of a run artifact",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ReportRequest"}}
                ],
                "responses": {
                    "202": {"description": "Accepted", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/reports/{id}": {
            "get": {
                "tags": ["Reports"],
                "summary": "Poll a report job",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Job not found"}
                }
            }
        },
        "/reports/download/{token}": {
            "get": {
                "tags": ["Reports"],
                "summary": "Download a finished report using a signed token",
                "produces": ["application/octet-stream"],
                "parameters": [
                    {"name": "token", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "File"},
                    "403": {"description": "Invalid or expired token"}
                }
            }
        }
    },
    "definitions": {
        "CourseInput": {
            "type": "object",
            "properties": {
                "department": {"type": "string"},
                "semester": {"type": "integer"},
                "code": {"type": "string"},
                "name": {"type": "string"},
                "faculty": {"type": "string"},
                "lecture": {"type": "number"},
                "tutorial": {"type": "number"},
                "practical": {"type": "number"},
                "self_study": {"type": "number"}
            },
            "required": ["department", "semester", "code", "faculty"]
        },
        "RoomInput": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "type": {"type": "string", "enum": ["LECTURE_ROOM", "COMPUTER_LAB", "SEATER_120"]}
            },
            "required": ["id", "type"]
        },
        "GenerateOptions": {
            "type": "object",
            "properties": {
                "seed": {"type": "integer"},
                "attempt_budget": {"type": "integer"}
            }
        },
        "GenerateTimetableRequest": {
            "type": "object",
            "properties": {
                "courses": {
                    "type": "array",
                    "items": {"$ref": "#/definitions/CourseInput"}
                },
                "rooms": {
                    "type": "array",
                    "items": {"$ref": "#/definitions/RoomInput"}
                },
                "options": {"$ref": "#/definitions/GenerateOptions"}
            },
            "required": ["courses"]
        },
        "SessionView": {
            "type": "object",
            "properties": {
                "type": {"type": "string", "enum": ["LEC", "TUT", "LAB"]},
                "course_code": {"type": "string"},
                "course_name": {"type": "string"},
                "faculty": {"type": "string"},
                "day": {"type": "string"},
                "start_slot": {"type": "integer"},
                "duration": {"type": "integer"},
                "time": {"type": "string"},
                "rooms": {"type": "array", "items": {"type": "string"}}
            }
        },
        "AuditRow": {
            "type": "object",
            "properties": {
                "course_code": {"type": "string"},
                "primary_code": {"type": "string"},
                "course_name": {"type": "string"},
                "faculty": {"type": "string"},
                "department": {"type": "string"},
                "semester": {"type": "integer"},
                "required": {"type": "object"},
                "scheduled": {"type": "object"},
                "missing": {"type": "object"},
                "variant_found": {"type": "boolean"},
                "reasons": {"type": "array", "items": {"type": "string"}}
            }
        },
        "ReportRequest": {
            "type": "object",
            "properties": {
                "type": {"type": "string", "enum": ["timetable", "audit", "faculty"]},
                "runId": {"type": "string"},
                "faculty": {"type": "string"},
                "format": {"type": "string", "enum": ["csv", "pdf"]}
            },
            "required": ["type", "runId", "format"]
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
                "pagination": {"type": "object"},
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
