// Package docs registers the OpenAPI description served under /swagger.
// Regenerate with `swag init -g cmd/main.go` after changing handler annotations.
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
        "/health": {
            "get": {
                "produces": ["application/json"],
                "tags": ["system"],
                "summary": "Health check",
                "responses": {"200": {"description": "OK", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}}
            }
        },
        "/auth/sign-up": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Register dispatcher",
                "parameters": [{"description": "Credentials", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.Credentials"}}],
                "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/models.Dispatcher"}}, "400": {"description": "Bad Request"}, "409": {"description": "Conflict"}, "500": {"description": "Internal Server Error"}}
            }
        },
        "/auth/sign-in": {
            "post": {
                "description": "Returns a bearer token for the /api/v1 routes, valid for one shift.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Sign in",
                "parameters": [{"description": "Credentials", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.Credentials"}}],
                "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}, "401": {"description": "Unauthorized"}, "500": {"description": "Internal Server Error"}}
            }
        },
        "/api/v1/me": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Current dispatcher",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/models.Identity"}}, "401": {"description": "Unauthorized"}}
            }
        },
        "/api/v1/orders": {
            "post": {
                "security": [{"BearerAuth": []}],
                "description": "Stores the order in its ideal container or on the shelf. 409 when no slot can be freed.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["kitchen"],
                "summary": "Place order",
                "parameters": [{"description": "Order", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.OrderRequest"}}],
                "responses": {"201": {"description": "placed, order_id"}, "400": {"description": "Bad Request"}, "401": {"description": "Unauthorized"}, "409": {"description": "Conflict"}}
            }
        },
        "/api/v1/orders/{id}/pickup": {
            "post": {
                "security": [{"BearerAuth": []}],
                "description": "Removes the order from storage. Expired orders are discarded and reported as 404.",
                "produces": ["application/json"],
                "tags": ["kitchen"],
                "summary": "Pick up order",
                "parameters": [{"type": "string", "description": "Order id", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}, "404": {"description": "Not Found"}}
            }
        },
        "/api/v1/kitchen/state": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["kitchen"],
                "summary": "Get kitchen state",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/models.KitchenState"}}, "401": {"description": "Unauthorized"}, "500": {"description": "Internal Server Error"}}
            }
        },
        "/api/v1/kitchen": {
            "delete": {
                "security": [{"BearerAuth": []}],
                "description": "Empties every container and the live action log.",
                "produces": ["application/json"],
                "tags": ["kitchen"],
                "summary": "Reset kitchen",
                "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}, "500": {"description": "Internal Server Error"}}
            }
        },
        "/api/v1/actions": {
            "get": {
                "security": [{"BearerAuth": []}],
                "description": "Action log of the live kitchen, or of a stored simulation run when run_id is set. A date-only 'to' covers the whole day.",
                "produces": ["application/json"],
                "tags": ["actions"],
                "summary": "List actions",
                "parameters": [
                    {"type": "string", "description": "Simulation run id", "name": "run_id", "in": "query"},
                    {"type": "string", "description": "Start of range", "name": "from", "in": "query"},
                    {"type": "string", "description": "End of range, inclusive", "name": "to", "in": "query"},
                    {"enum": ["place", "move", "pickup", "discard"], "type": "string", "description": "Action kind", "name": "action", "in": "query"}
                ],
                "responses": {"200": {"description": "count, actions"}, "400": {"description": "Bad Request"}, "401": {"description": "Unauthorized"}, "404": {"description": "Not Found"}, "500": {"description": "Internal Server Error"}}
            }
        },
        "/api/v1/simulations": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["simulations"],
                "summary": "List simulations",
                "parameters": [{"type": "integer", "default": 50, "description": "Most recent runs to return", "name": "limit", "in": "query"}, {"type": "boolean", "description": "Only runs started by the caller", "name": "mine", "in": "query"}],
                "responses": {"200": {"description": "count, runs"}, "400": {"description": "Bad Request"}, "401": {"description": "Unauthorized"}, "500": {"description": "Internal Server Error"}}
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "description": "Runs the orders (or a fetched challenge problem) against a fresh kitchen in the background.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["simulations"],
                "summary": "Start simulation",
                "parameters": [{"description": "Simulation", "name": "body", "in": "body", "schema": {"$ref": "#/definitions/handlers.SimulationRequest"}}],
                "responses": {"202": {"description": "Accepted", "schema": {"$ref": "#/definitions/models.Run"}}, "400": {"description": "Bad Request"}, "401": {"description": "Unauthorized"}, "500": {"description": "Internal Server Error"}}
            }
        },
        "/api/v1/simulations/{id}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["simulations"],
                "summary": "Get simulation",
                "parameters": [{"type": "string", "description": "Run id", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/models.Run"}}, "401": {"description": "Unauthorized"}, "404": {"description": "Not Found"}, "500": {"description": "Internal Server Error"}}
            }
        },
        "/ws": {
            "get": {
                "description": "WebSocket. Sends a kitchen_state message on connect and then every interval (?interval=2s or ?interval_ms=2000, 50ms..10s). ?compact=true drops per-order detail.",
                "tags": ["kitchen"],
                "summary": "Stream kitchen state",
                "responses": {}
            }
        }
    },
    "definitions": {
        "handlers.Credentials": {
            "type": "object",
            "required": ["password", "username"],
            "properties": {"password": {"type": "string", "example": "correct-horse"}, "username": {"type": "string", "example": "expo"}}
        },
        "models.Dispatcher": {
            "type": "object",
            "properties": {"created_at": {"type": "string"}, "id": {"type": "integer"}, "username": {"type": "string"}}
        },
        "models.Identity": {
            "type": "object",
            "properties": {"dispatcher_id": {"type": "integer"}, "username": {"type": "string"}}
        },
        "handlers.PickupWindow": {
            "type": "object",
            "properties": {"max_ms": {"type": "integer", "example": 8000}, "min_ms": {"type": "integer", "example": 4000}}
        },
        "handlers.OrderRequest": {
            "type": "object",
            "required": ["id", "temp"],
            "properties": {
                "dispatch": {"$ref": "#/definitions/handlers.PickupWindow"},
                "freshness": {"type": "integer", "example": 120},
                "id": {"type": "string", "example": "a8cfd2"},
                "name": {"type": "string", "example": "Cheese Pizza"},
                "price": {"type": "integer", "example": 12},
                "temp": {"type": "string", "example": "hot"}
            }
        },
        "handlers.SimulationRequest": {
            "type": "object",
            "properties": {
                "max_ms": {"type": "integer", "example": 8000},
                "min_ms": {"type": "integer", "example": 4000},
                "name": {"type": "string", "example": "daily"},
                "orders": {"type": "array", "items": {"$ref": "#/definitions/handlers.OrderRequest"}},
                "rate_ms": {"type": "integer", "example": 500},
                "seed": {"type": "integer", "example": 42}
            }
        },
        "models.Order": {
            "type": "object",
            "properties": {
                "freshness": {"type": "integer"},
                "id": {"type": "string"},
                "name": {"type": "string"},
                "price": {"type": "integer"},
                "temp": {"type": "string"}
            }
        },
        "models.StoredOrderView": {
            "type": "object",
            "properties": {
                "expires_in_seconds": {"type": "number"},
                "freshness": {"type": "number"},
                "ideal_temperature": {"type": "boolean"},
                "location": {"type": "string"},
                "order": {"$ref": "#/definitions/models.Order"},
                "placed_at": {"type": "string"}
            }
        },
        "models.ContainerState": {
            "type": "object",
            "properties": {
                "capacity": {"type": "integer"},
                "location": {"type": "string"},
                "orders": {"type": "array", "items": {"$ref": "#/definitions/models.StoredOrderView"}},
                "size": {"type": "integer"}
            }
        },
        "models.KitchenState": {
            "type": "object",
            "properties": {
                "actions": {"type": "integer"},
                "containers": {"type": "array", "items": {"$ref": "#/definitions/models.ContainerState"}},
                "taken_at": {"type": "string"},
                "tracked_on_shelf": {"type": "integer"}
            }
        },
        "models.Run": {
            "type": "object",
            "properties": {
                "error": {"type": "string"},
                "finished_at": {"type": "string"},
                "id": {"type": "string"},
                "max_pickup": {"type": "integer"},
                "min_pickup": {"type": "integer"},
                "orders_placed": {"type": "integer"},
                "orders_total": {"type": "integer"},
                "problem_id": {"type": "string"},
                "rate": {"type": "integer"},
                "result": {"type": "string"},
                "started_at": {"type": "string"},
                "started_by": {"type": "string"},
                "status": {"type": "string"}
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
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Delivery Kitchen API",
	Description:      "Places, stores and hands out delivery orders across heater, cooler and shelf.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
