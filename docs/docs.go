// Package docs registers the OpenAPI description served under /swagger.
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
        "/competitions/{competitionID}/matches": {
            "get": {
                "produces": ["application/json"],
                "tags": ["matches"],
                "summary": "List the matches of a competition",
                "parameters": [
                    {"type": "string", "name": "competitionID", "in": "path", "required": true},
                    {"type": "string", "name": "status", "in": "query"}
                ],
                "responses": {"200": {"description": "matches"}}
            }
        },
        "/matches/{matchID}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["matches"],
                "summary": "Get a league match",
                "parameters": [{"type": "integer", "name": "matchID", "in": "path", "required": true}],
                "responses": {"200": {"description": "match"}, "404": {"description": "Match not found"}}
            }
        },
        "/matches/{matchID}/act": {
            "get": {
                "produces": ["application/json"],
                "tags": ["acts"],
                "summary": "Get the act of a match",
                "parameters": [{"type": "integer", "name": "matchID", "in": "path", "required": true}],
                "responses": {"200": {"description": "act"}, "404": {"description": "Match has no act"}}
            },
            "put": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["acts"],
                "summary": "Create or replace the draft act of a match",
                "parameters": [
                    {"type": "integer", "name": "matchID", "in": "path", "required": true},
                    {"name": "input", "in": "body", "required": true, "schema": {"type": "object"}}
                ],
                "responses": {
                    "200": {"description": "act, optional warning"},
                    "404": {"description": "Match not found"},
                    "409": {"description": "Act is not a draft"},
                    "422": {"description": "Validation failed"}
                }
            }
        },
        "/matches/{matchID}/act/bouts/{order}": {
            "put": {
                "security": [{"BearerAuth": []}],
                "tags": ["acts"],
                "summary": "Create or replace one bout of a draft act",
                "parameters": [
                    {"type": "integer", "name": "matchID", "in": "path", "required": true},
                    {"type": "integer", "name": "order", "in": "path", "required": true},
                    {"name": "input", "in": "body", "required": true, "schema": {"type": "object"}}
                ],
                "responses": {"200": {"description": "act"}, "409": {"description": "Act is not a draft"}, "422": {"description": "Validation failed"}}
            }
        },
        "/matches/{matchID}/act/bouts/{order}/falls": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["acts"],
                "summary": "Record a fall in a bout",
                "parameters": [
                    {"type": "integer", "name": "matchID", "in": "path", "required": true},
                    {"type": "integer", "name": "order", "in": "path", "required": true},
                    {"name": "input", "in": "body", "required": true, "schema": {"type": "object"}}
                ],
                "responses": {"200": {"description": "act"}}
            }
        },
        "/matches/{matchID}/act/bouts/{order}/falls/{side}": {
            "delete": {
                "security": [{"BearerAuth": []}],
                "tags": ["acts"],
                "summary": "Undo the last fall of one side",
                "parameters": [
                    {"type": "integer", "name": "matchID", "in": "path", "required": true},
                    {"type": "integer", "name": "order", "in": "path", "required": true},
                    {"type": "string", "name": "side", "in": "path", "required": true}
                ],
                "responses": {"200": {"description": "act"}}
            }
        },
        "/matches/{matchID}/act/bouts/{order}/penalties": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["acts"],
                "summary": "Add a penalty to one side of a bout",
                "parameters": [
                    {"type": "integer", "name": "matchID", "in": "path", "required": true},
                    {"type": "integer", "name": "order", "in": "path", "required": true},
                    {"name": "input", "in": "body", "required": true, "schema": {"type": "object"}}
                ],
                "responses": {"200": {"description": "act"}}
            }
        },
        "/matches/{matchID}/act/complete": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["acts"],
                "summary": "Complete the act and push the result to the match",
                "parameters": [{"type": "integer", "name": "matchID", "in": "path", "required": true}],
                "responses": {"200": {"description": "act, optional warning"}, "409": {"description": "Act cannot be completed"}}
            }
        },
        "/matches/{matchID}/act/sign": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["acts"],
                "summary": "Sign a completed act",
                "parameters": [{"type": "integer", "name": "matchID", "in": "path", "required": true}],
                "responses": {"200": {"description": "act"}, "409": {"description": "Act is not completed"}}
            }
        },
        "/matches/{matchID}/act/verify": {
            "get": {
                "tags": ["acts"],
                "summary": "Check the seal of a signed act",
                "parameters": [{"type": "integer", "name": "matchID", "in": "path", "required": true}],
                "responses": {"200": {"description": "verification"}, "409": {"description": "Act is not signed"}}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "Wrestling League Match Acts API",
	Description:      "Official match acts of team wrestling league fixtures.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
