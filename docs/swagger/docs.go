// Package swagger holds the OpenAPI document served under /swagger and registers
// it with swag. The document is maintained by hand alongside the handlers.
package swagger

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
        "/archive": {
            "get": {
                "description": "Returns the archived torrent files under the configured prefix.",
                "produces": ["application/json"],
                "tags": ["archive"],
                "summary": "List Archived Files",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {"type": "array", "items": {"$ref": "#/definitions/archive.Object"}}
                    },
                    "500": {
                        "description": "Internal Server Error",
                        "schema": {"type": "object", "additionalProperties": {"type": "string"}}
                    }
                }
            }
        },
        "/archive/{name}": {
            "delete": {
                "description": "Removes one archived torrent file.",
                "produces": ["application/json"],
                "tags": ["archive"],
                "summary": "Remove Archived File",
                "parameters": [
                    {"type": "string", "description": "Object name", "name": "name", "in": "path", "required": true}
                ],
                "responses": {
                    "204": {"description": "No Content"},
                    "400": {
                        "description": "Bad Request",
                        "schema": {"type": "object", "additionalProperties": {"type": "string"}}
                    },
                    "500": {
                        "description": "Internal Server Error",
                        "schema": {"type": "object", "additionalProperties": {"type": "string"}}
                    }
                }
            }
        },
        "/integrity": {
            "get": {
                "description": "Performs all available integrity checks (Deluge, Storage, History) concurrently.",
                "produces": ["application/json"],
                "tags": ["integrity"],
                "summary": "Run All Integrity Checks",
                "responses": {
                    "200": {"description": "Combined Report", "schema": {"type": "object", "additionalProperties": true}},
                    "503": {"description": "Combined Report with failures", "schema": {"type": "object", "additionalProperties": true}}
                }
            }
        },
        "/integrity/deluge": {
            "get": {
                "description": "Detects the installed client generation and opens one session against the configured daemon.",
                "produces": ["application/json"],
                "tags": ["integrity"],
                "summary": "Check Deluge",
                "responses": {
                    "200": {"description": "Deluge Report", "schema": {"$ref": "#/definitions/checks.DelugeReport"}},
                    "503": {"description": "Service Unavailable", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/integrity/history": {
            "get": {
                "description": "Checks that the submissions table matches the history model.",
                "produces": ["application/json"],
                "tags": ["integrity"],
                "summary": "Check History Schema",
                "responses": {
                    "200": {"description": "Schema Report", "schema": {"$ref": "#/definitions/checks.SchemaReport"}},
                    "503": {"description": "Service Unavailable", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/integrity/storage": {
            "get": {
                "description": "Checks that the archive bucket exists. Optionally creates it.",
                "produces": ["application/json"],
                "tags": ["integrity"],
                "summary": "Check Storage",
                "parameters": [
                    {"type": "boolean", "description": "Create the bucket when missing", "name": "fix", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "Storage Report", "schema": {"$ref": "#/definitions/checks.StorageReport"}},
                    "503": {"description": "Service Unavailable", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/submissions": {
            "get": {
                "description": "Returns the most recent submissions, newest first.",
                "produces": ["application/json"],
                "tags": ["history"],
                "summary": "List Submissions",
                "parameters": [
                    {"type": "integer", "description": "Maximum number of rows", "name": "limit", "in": "query"}
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {"type": "array", "items": {"$ref": "#/definitions/history.Submission"}}
                    },
                    "500": {
                        "description": "Internal Server Error",
                        "schema": {"type": "object", "additionalProperties": {"type": "string"}}
                    }
                }
            }
        },
        "/submissions/{batch}": {
            "get": {
                "description": "Returns every submission recorded for a batch id.",
                "produces": ["application/json"],
                "tags": ["history"],
                "summary": "Get Batch",
                "parameters": [
                    {"type": "string", "description": "Batch ID", "name": "batch", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {"type": "array", "items": {"$ref": "#/definitions/history.Submission"}}
                    },
                    "404": {
                        "description": "Not Found",
                        "schema": {"type": "object", "additionalProperties": {"type": "string"}}
                    },
                    "500": {
                        "description": "Internal Server Error",
                        "schema": {"type": "object", "additionalProperties": {"type": "string"}}
                    }
                }
            }
        }
    },
    "definitions": {
        "archive.Object": {
            "type": "object",
            "properties": {
                "last_modified": {"type": "string"},
                "name": {"type": "string"},
                "size": {"type": "integer"}
            }
        },
        "checks.DelugeReport": {
            "type": "object",
            "properties": {
                "address": {"type": "string"},
                "generation": {"type": "string"},
                "torrents": {"type": "integer"}
            }
        },
        "checks.SchemaReport": {
            "type": "object",
            "properties": {
                "errors": {"type": "array", "items": {"type": "string"}},
                "matched": {"type": "boolean"},
                "tables": {"type": "object", "additionalProperties": {"$ref": "#/definitions/checks.TableReport"}}
            }
        },
        "checks.StorageReport": {
            "type": "object",
            "properties": {
                "bucket": {"type": "string"},
                "objects": {"type": "integer"},
                "prefix": {"type": "string"}
            }
        },
        "checks.TableReport": {
            "type": "object",
            "properties": {
                "missing_columns": {"type": "array", "items": {"type": "string"}},
                "status": {"type": "string"},
                "type_mismatches": {"type": "array", "items": {"type": "string"}}
            }
        },
        "history.Submission": {
            "type": "object",
            "properties": {
                "batch_id": {"type": "string"},
                "created_at": {"type": "string"},
                "id": {"type": "integer"},
                "mode": {"type": "string"},
                "reason": {"type": "string"},
                "status": {"type": "string"},
                "title": {"type": "string"},
                "torrent_id": {"type": "string"}
            }
        }
    },
    "securityDefinitions": {
        "ApiKeyAuth": {"type": "apiKey", "name": "X-API-Key", "in": "header"}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "deluge-submit API",
	Description:      "Submission history and archived torrent files of deluge-submit.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
