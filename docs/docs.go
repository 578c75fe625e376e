// Package docs registers the OpenAPI template served under /swagger.
// It is maintained by hand in the layout swag init emits.
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
        "/api/blockchain-data": {
            "get": {"tags": ["chains"], "summary": "Stored chain aggregate", "responses": {"200": {"description": "OK"}, "500": {"description": "Internal Server Error"}}}
        },
        "/api/save-blockchain-data": {
            "post": {"security": [{"BearerAuth": []}], "tags": ["chains"], "summary": "Replace the stored chain aggregate", "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}, "500": {"description": "Internal Server Error"}}}
        },
        "/api/chains": {
            "get": {"tags": ["chains"], "summary": "Build the chain aggregate from live sources", "responses": {"200": {"description": "OK"}, "502": {"description": "Bad Gateway"}}}
        },
        "/api/graph": {
            "post": {"tags": ["chart"], "summary": "Daily OHLC bars for one asset", "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}, "500": {"description": "Internal Server Error"}}}
        },
        "/api/sentiment": {
            "get": {"tags": ["sentiment"], "summary": "Community sentiment for one symbol", "parameters": [{"type": "string", "name": "symbol", "in": "query", "required": true}, {"type": "number", "name": "priceChange24h", "in": "query"}], "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}}}
        },
        "/api/sentiment/batch": {
            "post": {"tags": ["sentiment"], "summary": "Community sentiment for several symbols", "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}}}
        },
        "/api/chat": {
            "post": {"tags": ["chat"], "summary": "Ask the blockchain assistant", "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}, "401": {"description": "Unauthorized"}, "403": {"description": "Forbidden"}, "429": {"description": "Too Many Requests"}, "500": {"description": "Internal Server Error"}}}
        },
        "/api/v1/chains": {
            "get": {"tags": ["chains"], "summary": "Query the stored chain aggregate", "parameters": [{"type": "string", "name": "search", "in": "query"}, {"type": "string", "name": "speed", "in": "query"}, {"type": "string", "name": "performance", "in": "query"}, {"type": "string", "name": "sort_by", "in": "query"}, {"type": "string", "name": "sort_order", "in": "query"}, {"type": "integer", "name": "count", "in": "query"}], "responses": {"200": {"description": "OK"}}}
        },
        "/api/v1/chains/refresh": {
            "post": {"security": [{"BearerAuth": []}], "tags": ["chains"], "summary": "Rebuild and store the chain aggregate", "responses": {"200": {"description": "OK"}, "409": {"description": "Conflict"}, "502": {"description": "Bad Gateway"}}}
        },
        "/api/v1/chains/{geckoId}": {
            "get": {"tags": ["chains"], "summary": "One stored chain by price source id", "parameters": [{"type": "string", "name": "geckoId", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}}
        },
        "/api/v1/sync-state": {
            "get": {"tags": ["chains"], "summary": "Chain refresh sync state", "responses": {"200": {"description": "OK"}}}
        },
        "/api/v1/system-settings/switches": {
            "get": {"tags": ["settings"], "summary": "List feature switches", "responses": {"200": {"description": "OK"}}}
        },
        "/api/v1/system-settings/switches/{name}": {
            "get": {"tags": ["settings"], "summary": "Get one feature switch", "parameters": [{"type": "string", "name": "name", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}},
            "put": {"security": [{"BearerAuth": []}], "tags": ["settings"], "summary": "Turn a feature switch on or off", "parameters": [{"type": "string", "name": "name", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}}
        },
        "/healthz": {
            "get": {"tags": ["health"], "summary": "Health check", "responses": {"200": {"description": "OK"}}}
        },
        "/readyz": {
            "get": {"tags": ["health"], "summary": "Readiness check", "responses": {"200": {"description": "OK"}, "503": {"description": "Service Unavailable"}}}
        }
    },
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "0.1.0",
	Host:             "localhost:8080",
	BasePath:         "/",
	Schemes:          []string{"http"},
	Title:            "BlockchainSpace API",
	Description:      "Chain metrics aggregation, price charts, sentiment and chat relay.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
