// Package swagger registers the OpenAPI document served under /swagger.
// Regenerate with: swag init -g cmd/api/main.go -o docs/swagger
package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {
            "name": "API Support"
        },
        "license": {
            "name": "MIT"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/checkout": {
            "post": {
                "description": "Validate the cart, card and address, price shipping and persist the order, payment and shipment atomically.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "summary": "Place an order",
                "parameters": [
                    {
                        "description": "Checkout request",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/domain.CheckoutRequest"}
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.CheckoutResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.CheckoutErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/handler.CheckoutErrorResponse"}}
                }
            }
        },
        "/orders/{id}": {
            "get": {
                "description": "Fetch an order with its payment and shipping records.",
                "produces": ["application/json"],
                "summary": "Get Order by ID",
                "parameters": [
                    {"type": "integer", "description": "Order ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.OrderDetails"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}}
                }
            }
        },
        "/orders/{id}/status": {
            "put": {
                "description": "Pending to Processing or Cancelled, Processing to Shipped or Cancelled, Shipped to Completed.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "summary": "Update order status",
                "parameters": [
                    {"type": "integer", "description": "Order ID", "name": "id", "in": "path", "required": true},
                    {
                        "description": "New status",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/handler.UpdateStatusRequest"}
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.Order"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}}
                }
            }
        },
        "/shipping/estimate": {
            "get": {
                "description": "Quote the cost and delivery window of a shipping method for an address.",
                "produces": ["application/json"],
                "summary": "Estimate shipping",
                "parameters": [
                    {"type": "string", "description": "Street", "name": "street", "in": "query", "required": true},
                    {"type": "string", "description": "City", "name": "city", "in": "query"},
                    {"type": "string", "description": "Postal code", "name": "postal_code", "in": "query", "required": true},
                    {"type": "string", "description": "Country", "name": "country", "in": "query", "required": true},
                    {"type": "string", "description": "Shipping method (Standard, Express, SameDay, International)", "name": "method", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.Option"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "domain.Address": {
            "type": "object",
            "properties": {
                "street": {"type": "string"},
                "city": {"type": "string"},
                "postal_code": {"type": "string"},
                "country": {"type": "string"}
            }
        },
        "domain.CartItem": {
            "type": "object",
            "required": ["book_id"],
            "properties": {
                "book_id": {"type": "string"},
                "title": {"type": "string"},
                "unit_price": {"type": "string", "example": "10.99"},
                "quantity": {"type": "integer"}
            }
        },
        "domain.PaymentInfo": {
            "type": "object",
            "properties": {
                "card_number": {"type": "string"},
                "cardholder_name": {"type": "string"},
                "expiry": {"type": "string", "example": "12/28"},
                "cvv": {"type": "string"},
                "billing_country": {"type": "string"}
            }
        },
        "domain.CheckoutRequest": {
            "type": "object",
            "required": ["items", "user_id"],
            "properties": {
                "user_id": {"type": "string"},
                "cart_id": {"type": "string"},
                "items": {"type": "array", "minItems": 1, "items": {"$ref": "#/definitions/domain.CartItem"}},
                "shipping_address": {"$ref": "#/definitions/domain.Address"},
                "shipping_method": {"type": "string", "example": "Standard"},
                "payment": {"$ref": "#/definitions/domain.PaymentInfo"},
                "promo_code": {"type": "string"}
            }
        },
        "domain.CheckoutResponse": {
            "type": "object",
            "properties": {
                "order_id": {"type": "integer"},
                "subtotal": {"type": "string"},
                "shipping_cost": {"type": "string"},
                "total_amount": {"type": "string"},
                "delivery_estimate": {"type": "string"},
                "tracking_number": {"type": "string"},
                "payment_confirmation": {"type": "string"},
                "shipping_is_estimate": {"type": "boolean"},
                "state": {"type": "string"}
            }
        },
        "domain.Option": {
            "type": "object",
            "properties": {
                "method": {"type": "string"},
                "available": {"type": "boolean"},
                "cost": {"type": "string"},
                "delivery_estimate": {"type": "string"},
                "is_estimate": {"type": "boolean"},
                "distance_miles": {"type": "number"},
                "reason": {"type": "string"}
            }
        },
        "domain.OrderItem": {
            "type": "object",
            "properties": {
                "book_id": {"type": "string"},
                "title": {"type": "string"},
                "quantity": {"type": "integer"},
                "unit_price": {"type": "string"}
            }
        },
        "domain.Order": {
            "type": "object",
            "properties": {
                "order_id": {"type": "integer"},
                "user_id": {"type": "string"},
                "cart_id": {"type": "string"},
                "promo_code": {"type": "string"},
                "status": {"type": "string"},
                "items": {"type": "array", "items": {"$ref": "#/definitions/domain.OrderItem"}},
                "subtotal": {"type": "string"},
                "shipping_cost": {"type": "string"},
                "total_amount": {"type": "string"},
                "created_at": {"type": "string"}
            }
        },
        "domain.OrderDetails": {
            "type": "object",
            "properties": {
                "order_id": {"type": "integer"},
                "user_id": {"type": "string"},
                "cart_id": {"type": "string"},
                "promo_code": {"type": "string"},
                "status": {"type": "string"},
                "items": {"type": "array", "items": {"$ref": "#/definitions/domain.OrderItem"}},
                "subtotal": {"type": "string"},
                "shipping_cost": {"type": "string"},
                "total_amount": {"type": "string"},
                "created_at": {"type": "string"},
                "payment": {"$ref": "#/definitions/domain.Payment"},
                "shipping": {"$ref": "#/definitions/domain.Shipping"}
            }
        },
        "domain.Payment": {
            "type": "object",
            "properties": {
                "payment_id": {"type": "integer"},
                "order_id": {"type": "integer"},
                "masked_card_number": {"type": "string"},
                "card_brand": {"type": "string"},
                "expiry": {"type": "string"},
                "amount": {"type": "string"},
                "status": {"type": "string"},
                "created_at": {"type": "string"}
            }
        },
        "domain.Shipping": {
            "type": "object",
            "properties": {
                "shipping_id": {"type": "integer"},
                "order_id": {"type": "integer"},
                "address": {"$ref": "#/definitions/domain.Address"},
                "method": {"type": "string"},
                "cost": {"type": "string"},
                "delivery_estimate": {"type": "string"},
                "tracking_number": {"type": "string"},
                "distance_miles": {"type": "number"},
                "is_estimate": {"type": "boolean"},
                "shipped_at": {"type": "string"}
            }
        },
        "handler.ErrorResponse": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "ray_id": {"type": "string"}
            }
        },
        "handler.CheckoutErrorResponse": {
            "type": "object",
            "properties": {
                "errors": {
                    "type": "array",
                    "items": {
                        "type": "object",
                        "properties": {
                            "code": {"type": "string"},
                            "message": {"type": "string"},
                            "details": {"type": "object", "additionalProperties": {"type": "string"}}
                        }
                    }
                },
                "ray_id": {"type": "string"}
            }
        },
        "handler.UpdateStatusRequest": {
            "type": "object",
            "properties": {
                "status": {"type": "string", "example": "Shipped"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Bookstore Checkout API",
	Description:      "Checkout orchestration for the bookstore: payment validation, shipping quotes and atomic order placement.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
