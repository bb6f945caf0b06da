package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Result Magic API",
        "description": "Score entry, weighted grading, class rankings and parent dispatch for schools",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "tags": [
        {"name": "Auth", "description": "School registration and staff login"},
        {"name": "School", "description": "School profile and staff accounts"},
        {"name": "Templates", "description": "Saved class configurations"},
        {"name": "Results", "description": "Score entry, rankings and result sheets"},
        {"name": "Export", "description": "Printable CSV, PDF and XLSX documents"},
        {"name": "Dispatch", "description": "Parent email and WhatsApp links"},
        {"name": "History", "description": "Student records across terms"}
    ],
    "paths": {
        "/auth/register": {
            "post": {
                "tags": ["Auth"],
                "summary": "Register a school with its first administrator",
                "parameters": [{"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/RegisterSchoolRequest"}}],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Email already registered", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/auth/login": {
            "post": {
                "tags": ["Auth"],
                "summary": "Login",
                "parameters": [{"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Invalid credentials", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/school": {
            "get": {
                "tags": ["School"], "summary": "Get the caller's school", "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            },
            "put": {
                "tags": ["School"], "summary": "Update the school profile (admin)", "security": [{"BearerAuth": []}],
                "parameters": [{"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateSchoolRequest"}}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "403": {"description": "Forbidden"}}
            },
            "delete": {
                "tags": ["School"], "summary": "Delete the school and all of its data (admin)", "security": [{"BearerAuth": []}],
                "responses": {"204": {"description": "No Content"}, "403": {"description": "Forbidden"}}
            }
        },
        "/school/users": {
            "get": {
                "tags": ["School"], "summary": "List staff (admin)", "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            },
            "post": {
                "tags": ["School"], "summary": "Create a staff account (admin)", "security": [{"BearerAuth": []}],
                "parameters": [{"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateUserRequest"}}],
                "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "409": {"description": "Email already registered"}}
            }
        },
        "/school/users/{id}": {
            "put": {
                "tags": ["School"], "summary": "Update a staff account (admin)", "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateUserRequest"}}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            },
            "delete": {
                "tags": ["School"], "summary": "Delete a staff account (admin)", "security": [{"BearerAuth": []}],
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {"204": {"description": "No Content"}}
            }
        },
        "/templates": {
            "get": {
                "tags": ["Templates"], "summary": "List templates", "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            },
            "post": {
                "tags": ["Templates"], "summary": "Create a template", "security": [{"BearerAuth": []}],
                "parameters": [{"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/TemplateRequest"}}],
                "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "400": {"description": "Weights do not sum to 100"}}
            }
        },
        "/templates/{id}": {
            "get": {
                "tags": ["Templates"], "summary": "Get a template", "security": [{"BearerAuth": []}],
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "404": {"description": "Not found"}}
            },
            "put": {
                "tags": ["Templates"], "summary": "Update a template", "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/TemplateRequest"}}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            },
            "delete": {
                "tags": ["Templates"], "summary": "Delete a template", "security": [{"BearerAuth": []}],
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {"204": {"description": "No Content"}}
            }
        },
        "/templates/{id}/apply": {
            "post": {
                "tags": ["Templates"], "summary": "Copy a template's class configuration", "security": [{"BearerAuth": []}],
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/grading/preview": {
            "post": {
                "tags": ["Results"], "summary": "Compute one student's totals without saving", "security": [{"BearerAuth": []}],
                "parameters": [{"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/PreviewRequest"}}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/results": {
            "get": {
                "tags": ["Results"], "summary": "List saved result sets", "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "class", "in": "query", "type": "string"},
                    {"name": "term", "in": "query", "type": "string"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "page_size", "in": "query", "type": "integer"}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            },
            "post": {
                "tags": ["Results"], "summary": "Save a class result set", "security": [{"BearerAuth": []}],
                "parameters": [{"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SaveResultSetRequest"}}],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "403": {"description": "Class not assigned to the teacher"},
                    "409": {"description": "Duplicate admission number"}
                }
            }
        },
        "/results/{id}": {
            "get": {
                "tags": ["Results"], "summary": "Get a result set", "security": [{"BearerAuth": []}],
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "404": {"description": "Not found"}}
            },
            "delete": {
                "tags": ["Results"], "summary": "Delete a result set", "security": [{"BearerAuth": []}],
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {"204": {"description": "No Content"}}
            }
        },
        "/results/{id}/rankings": {
            "get": {
                "tags": ["Results"], "summary": "Overall and per-subject competition rankings", "security": [{"BearerAuth": []}],
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/results/{id}/rankings/{subject}": {
            "get": {
                "tags": ["Results"], "summary": "Ranking for one subject", "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "subject", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "404": {"description": "Unknown subject"}}
            }
        },
        "/results/{id}/students/{studentId}": {
            "get": {
                "tags": ["Results"], "summary": "Student result sheet", "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "studentId", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/results/{id}/export": {
            "get": {
                "tags": ["Export"], "summary": "Download the class summary", "security": [{"BearerAuth": []}],
                "produces": ["text/csv", "application/pdf", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf", "xlsx"]}
                ],
                "responses": {"200": {"description": "File"}, "400": {"description": "Unsupported format"}}
            }
        },
        "/results/{id}/students/{studentId}/export": {
            "get": {
                "tags": ["Export"], "summary": "Download a student result sheet", "security": [{"BearerAuth": []}],
                "produces": ["text/csv", "application/pdf", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"],
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "studentId", "in": "path", "required": true, "type": "string"},
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf", "xlsx"]}
                ],
                "responses": {"200": {"description": "File"}}
            }
        },
        "/dispatch/preview": {
            "post": {
                "tags": ["Dispatch"], "summary": "Preview parent links", "security": [{"BearerAuth": []}],
                "parameters": [{"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/DispatchRequest"}}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/dispatch": {
            "post": {
                "tags": ["Dispatch"], "summary": "Generate and record parent links", "security": [{"BearerAuth": []}],
                "parameters": [{"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/DispatchRequest"}}],
                "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/dispatch/history": {
            "get": {
                "tags": ["Dispatch"], "summary": "Dispatch history", "security": [{"BearerAuth": []}],
                "parameters": [{"name": "limit", "in": "query", "type": "integer"}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/history/students": {
            "get": {
                "tags": ["History"], "summary": "Students across saved result sets", "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}}
            }
        },
        "/history/students/{admissionNumber}": {
            "get": {
                "tags": ["History"], "summary": "Student history with cumulative average", "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "admissionNumber", "in": "path", "required": true, "type": "string"},
                    {"name": "threshold", "in": "query", "type": "number"}
                ],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}, "404": {"description": "Not found"}}
            }
        },
        "/history/students/{admissionNumber}/export": {
            "get": {
                "tags": ["History"], "summary": "Download a student's history as JSON", "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "admissionNumber", "in": "path", "required": true, "type": "string"},
                    {"name": "threshold", "in": "query", "type": "number"}
                ],
                "responses": {"200": {"description": "File"}}
            }
        }
    },
    "definitions": {
        "RegisterSchoolRequest": {
            "type": "object",
            "required": ["school_name", "admin_name", "email", "password"],
            "properties": {
                "school_name": {"type": "string"},
                "head_position": {"type": "string"},
                "logo": {"type": "string"},
                "admin_name": {"type": "string"},
                "email": {"type": "string"},
                "password": {"type": "string", "minLength": 6}
            }
        },
        "LoginRequest": {
            "type": "object",
            "required": ["email", "password"],
            "properties": {"email": {"type": "string"}, "password": {"type": "string"}}
        },
        "UpdateSchoolRequest": {
            "type": "object",
            "required": ["name"],
            "properties": {"name": {"type": "string"}, "head_position": {"type": "string"}, "logo": {"type": "string"}}
        },
        "CreateUserRequest": {
            "type": "object",
            "required": ["email", "full_name", "role", "password"],
            "properties": {
                "email": {"type": "string"},
                "full_name": {"type": "string"},
                "role": {"type": "string", "enum": ["ADMIN", "TEACHER"]},
                "password": {"type": "string"},
                "assigned_classes": {"type": "array", "items": {"type": "string"}}
            }
        },
        "UpdateUserRequest": {
            "type": "object",
            "required": ["full_name", "role"],
            "properties": {
                "full_name": {"type": "string"},
                "role": {"type": "string", "enum": ["ADMIN", "TEACHER"]},
                "assigned_classes": {"type": "array", "items": {"type": "string"}},
                "active": {"type": "boolean"},
                "password": {"type": "string"}
            }
        },
        "GradingComponent": {
            "type": "object",
            "properties": {"name": {"type": "string"}, "percentage": {"type": "number"}, "enabled": {"type": "boolean"}}
        },
        "ClassConfiguration": {
            "type": "object",
            "required": ["class_name", "exam_type", "term", "subjects"],
            "properties": {
                "class_name": {"type": "string"},
                "exam_type": {"type": "string"},
                "term": {"type": "string"},
                "subjects": {"type": "array", "items": {"type": "string"}},
                "grading_components": {"type": "array", "items": {"$ref": "#/definitions/GradingComponent"}},
                "subject_grading_components": {
                    "type": "object",
                    "additionalProperties": {"type": "array", "items": {"$ref": "#/definitions/GradingComponent"}}
                }
            }
        },
        "TemplateRequest": {
            "type": "object",
            "required": ["name"],
            "properties": {
                "name": {"type": "string"},
                "description": {"type": "string"},
                "class_data": {"$ref": "#/definitions/ClassConfiguration"}
            }
        },
        "StudentEntry": {
            "type": "object",
            "required": ["name", "admission_number"],
            "properties": {
                "id": {"type": "string"},
                "name": {"type": "string"},
                "admission_number": {"type": "string"},
                "parent_details": {
                    "type": "object",
                    "properties": {"full_name": {"type": "string"}, "phone_number": {"type": "string"}, "email": {"type": "string"}}
                },
                "scores": {
                    "type": "object",
                    "additionalProperties": {"type": "object", "additionalProperties": {"type": "number"}}
                }
            }
        },
        "SaveResultSetRequest": {
            "type": "object",
            "required": ["class_data", "academic_year", "students"],
            "properties": {
                "class_data": {"$ref": "#/definitions/ClassConfiguration"},
                "academic_year": {"type": "integer"},
                "students": {"type": "array", "items": {"$ref": "#/definitions/StudentEntry"}}
            }
        },
        "PreviewRequest": {
            "type": "object",
            "properties": {
                "class_data": {"$ref": "#/definitions/ClassConfiguration"},
                "student": {"$ref": "#/definitions/StudentEntry"}
            }
        },
        "DispatchRequest": {
            "type": "object",
            "required": ["result_set_id", "student_ids", "method"],
            "properties": {
                "result_set_id": {"type": "string"},
                "student_ids": {"type": "array", "items": {"type": "string"}},
                "method": {"type": "string", "enum": ["email", "whatsapp"]},
                "custom_message": {"type": "string"}
            }
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
