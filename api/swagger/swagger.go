package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Timetable API",
        "description": "Automatic timetable and group generation for university cycles",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Groups", "description": "Group catalog generation and listing"},
        {"name": "Scheduler", "description": "Automatic schedule generation"},
        {"name": "Schedule", "description": "General schedule views and export"}
    ],
    "paths": {
        "/cycles/{cycleId}/groups/generate": {
            "post": {
                "tags": ["Groups"],
                "summary": "Generate the group catalog for a cycle",
                "parameters": [
                    {"name": "cycleId", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "schema": {"$ref": "#/definitions/GenerateGroupsRequest"}}
                ],
                "responses": {
                    "200": {"description": "Generation summary", "schema": {"$ref": "#/definitions/Envelope"}},
                    "404": {"description": "Cycle not found"},
                    "412": {"description": "Missing professors, subjects or classrooms"}
                }
            }
        },
        "/cycles/{cycleId}/groups": {
            "get": {
                "tags": ["Groups"],
                "summary": "List the group catalog of a cycle",
                "parameters": [
                    {"name": "cycleId", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "Groups in catalog order", "schema": {"$ref": "#/definitions/Envelope"}}
                }
            }
        },
        "/cycles/{cycleId}/schedule/generate": {
            "post": {
                "tags": ["Scheduler"],
                "summary": "Generate the general schedule for a cycle",
                "description": "Replaces the cycle schedule transactionally. Per-group shortfalls are reported as warnings.",
                "parameters": [
                    {"name": "cycleId", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "Generation result with per-group allocations", "schema": {"$ref": "#/definitions/Envelope"}},
                    "404": {"description": "Cycle not found"},
                    "412": {"description": "No groups defined for the cycle"}
                }
            }
        },
        "/schedule/runs/{runId}": {
            "get": {
                "tags": ["Scheduler"],
                "summary": "Fetch a stored generation report",
                "parameters": [
                    {"name": "runId", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "Generation report", "schema": {"$ref": "#/definitions/Envelope"}},
                    "404": {"description": "Report not found or expired"}
                }
            }
        },
        "/cycles/{cycleId}/schedule": {
            "get": {
                "tags": ["Schedule"],
                "summary": "Get the general schedule of a cycle",
                "parameters": [
                    {"name": "cycleId", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "Schedule blocks with resolved names", "schema": {"$ref": "#/definitions/Envelope"}}
                }
            }
        },
        "/cycles/{cycleId}/schedule/export": {
            "get": {
                "tags": ["Schedule"],
                "summary": "Download a cycle schedule as CSV",
                "produces": ["text/csv"],
                "parameters": [
                    {"name": "cycleId", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "CSV payload"},
                    "404": {"description": "Cycle not found"}
                }
            }
        },
        "/professors/{professorId}/schedule": {
            "get": {
                "tags": ["Schedule"],
                "summary": "Get a professor schedule",
                "parameters": [
                    {"name": "professorId", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "Schedule blocks", "schema": {"$ref": "#/definitions/Envelope"}}
                }
            }
        },
        "/classrooms/{classroomId}/schedule": {
            "get": {
                "tags": ["Schedule"],
                "summary": "Get a classroom schedule",
                "parameters": [
                    {"name": "classroomId", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "Schedule blocks", "schema": {"$ref": "#/definitions/Envelope"}}
                }
            }
        }
    },
    "definitions": {
        "GenerateGroupsRequest": {
            "type": "object",
            "properties": {
                "idPrefix": {"type": "string", "description": "Optional prefix for deterministic group IDs"}
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
        "Envelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
                "warnings": {"type": "array", "items": {"type": "string"}},
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
