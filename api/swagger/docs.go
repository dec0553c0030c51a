// Package swagger registers the OpenAPI document served under /swagger.
// The path definitions come from the handler annotations; regenerate with
//
//	swag init -g cmd/weplanet-server/main.go -o api/swagger --outputTypes go
package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {
            "name": "WePlanet Support"
        },
        "license": {
            "name": "MIT",
            "url": "https://opensource.org/licenses/MIT"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "tags": [
        {"name": "auth"},
        {"name": "families"},
        {"name": "members"},
        {"name": "activities"},
        {"name": "badges"},
        {"name": "missions"},
        {"name": "dashboard"},
        {"name": "users"},
        {"name": "api-keys"}
    ],
    "paths": {
        "/activities": {
            "post": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "description": "Records an activity for a family the caller belongs to and updates points, level, streak and badges",
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "activities"
                ],
                "summary": "Record eco activity",
                "parameters": [
                    {
                        "description": "Activity",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/activities.CreateActivityRequest"
                        }
                    }
                ],
                "responses": {
                    "201": {
                        "description": "Created",
                        "schema": {
                            "$ref": "#/definitions/activities.RecordResponse"
                        }
                    },
                    "400": {
                        "description": "Validation error",
                        "schema": {
                            "type": "object",
                            "additionalProperties": true
                        }
                    },
                    "403": {
                        "description": "Not a family member",
                        "schema": {
                            "type": "object",
                            "additionalProperties": {
                                "type": "string"
                            }
                        }
                    }
                }
            },
            "get": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "description": "The caller's own activities, or a family's when family_id is given",
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "activities"
                ],
                "summary": "List eco activities",
                "parameters": [
                    {
                        "description": "Family ID",
                        "name": "family_id",
                        "in": "query",
                        "type": "integer"
                    },
                    {
                        "description": "Category",
                        "name": "category",
                        "in": "query",
                        "type": "string"
                    },
                    {
                        "description": "pending, verified or rejected",
                        "name": "status",
                        "in": "query",
                        "type": "string"
                    },
                    {
                        "description": "Page (default 1)",
                        "name": "page",
                        "in": "query",
                        "type": "integer"
                    },
                    {
                        "description": "Page size (default 20, max 100)",
                        "name": "size",
                        "in": "query",
                        "type": "integer"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/activities.ListResponse"
                        }
                    },
                    "403": {
                        "description": "Not a family member",
                        "schema": {
                            "type": "object",
                            "additionalProperties": {
                                "type": "string"
                            }
                        }
                    }
                }
            }
        },
        "/activities/stats": {
            "get": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "description": "Stats returns the caller's activity statistics",
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "activities"
                ],
                "summary": "My activity statistics",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/activities.Stats"
                        }
                    }
                }
            }
        },
        "/activities/{id}/verify": {
            "put": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "description": "Creator or admin of the activity's family only",
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "activities"
                ],
                "summary": "Verify eco activity",
                "parameters": [
                    {
                        "description": "Activity ID",
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "integer"
                    },
                    {
                        "description": "Verification",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/activities.VerifyRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/activities.ActivityResponse"
                        }
                    },
                    "403": {
                        "description": "Insufficient role",
                        "schema": {
                            "type": "object",
                            "additionalProperties": {
                                "type": "string"
                            }
                        }
                    },
                    "404": {
                        "description": "Activity not found",
                        "schema": {
                            "type": "object",
                            "additionalProperties": {
                                "type": "string"
                            }
                        }
                    }
                }
            }
        },
        "/api-keys": {
            "post": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "description": "Create a personal API key. The full key is only returned once.",
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "api-keys"
                ],
                "summary": "Create API key",
                "parameters": [
                    {
                        "description": "Key description",
                        "name": "request",
                        "in": "body",
                        "schema": {
                            "$ref": "#/definitions/apikeys.CreateAPIKeyRequest"
                        }
                    }
                ],
                "responses": {
                    "201": {
                        "description": "Created",
                        "schema": {
                            "$ref": "#/definitions/apikeys.CreateAPIKeyResponse"
                        }
                    },
                    "400": {
                        "description": "Too many keys",
                        "schema": {
                            "type": "object",
                            "additionalProperties": {
                                "type": "string"
                            }
                        }
                    }
                }
            },
            "get": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "description": "List returns all API keys for the authenticated user",
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "api-keys"
                ],
                "summary": "List API keys",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "array",
                            "items": {
                                "$ref": "#/definitions/apikeys.APIKeyResponse"
                            }
                        }
                    }
                }
            }
        },
        "/api-keys/{id}": {
            "delete": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "description": "Delete revokes an API key",
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "api-keys"
                ],
                "summary": "Delete API key",
                "parameters": [
                    {
                        "description": "API key ID",
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "integer"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "object",
                            "additionalProperties": {
                                "type": "string"
                            }
                        }
                    },
                    "404": {
                        "description": "API key not found",
                        "schema": {
                            "type": "object",
                            "additionalProperties": {
                                "type": "string"
                            }
                        }
                    }
                }
            }
        },
        "/auth/check-email/{email}": {
            "get": {
                "description": "CheckEmail reports whether an email address can be registered",
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "auth"
                ],
                "summary": "Check email availability",
                "parameters": [
                    {
                        "description": "Email address",
                        "name": "email",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/auth.AvailabilityResponse"
                        }
                    }
                }
            }
        },
        "/auth/check-username/{username}": {
            "get": {
                "description": "CheckUsername reports whether a username can be registered",
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "auth"
                ],
                "summary": "Check username availability",
                "parameters": [
                    {
                        "description": "Username",
                        "name": "username",
                        "in": "path",
                        "required": true,
                        "type": "string"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/auth.AvailabilityResponse"
                        }
                    }
                }
            }
        },
        "/auth/login": {
            "post": {
                "description": "Authenticate with email or username and password to receive a JWT token",
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "auth"
                ],
                "summary": "Login",
                "parameters": [
                    {
                        "description": "Login credentials",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/auth.LoginRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/auth.AuthResponse"
                        }
                    },
                    "400": {
                        "description": "Validation error",
                        "schema": {
                            "type": "object",
                            "additionalProperties": true
                        }
                    },
                    "401": {
                        "description": "Invalid credentials",
                        "schema": {
                            "type": "object",
                            "additionalProperties": {
                                "type": "string"
                            }
                        }
                    },
                    "403": {
                        "description": "Account disabled",
                        "schema": {
                            "type": "object",
                            "additionalProperties": {
                                "type": "string"
                            }
                        }
                    }
                }
            }
        },
        "/auth/logout": {
            "post": {
                "description": "Logout the current user (client-side token invalidation)",
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "auth"
                ],
                "summary": "Logout",
                "responses": {
                    "200": {
                        "description": "Logged out successfully",
                        "schema": {
                            "type": "object",
                            "additionalProperties": {
                                "type": "string"
                            }
                        }
                    }
                }
            }
        },
        "/auth/me": {
            "get": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "description": "Get the authenticated user's profile",
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "auth"
                ],
                "summary": "Get current user",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/auth.UserResponse"
                        }
                    },
                    "401": {
                        "description": "Authentication required",
                        "schema": {
                            "type": "object",
                            "additionalProperties": {
                                "type": "string"
                            }
                        }
                    },
                    "403": {
                        "description": "Account disabled",
                        "schema": {
                            "type": "object",
                            "additionalProperties": {
                                "type": "string"
                            }
                        }
                    }
                }
            }
        },
        "/auth/refresh": {
            "post": {
                "description": "Exchange a refresh token for a new access and refresh token",
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "auth"
                ],
                "summary": "Refresh tokens",
                "parameters": [
                    {
                        "description": "Refresh token",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/auth.RefreshRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/auth.AuthResponse"
                        }
                    },
                    "400": {
                        "description": "Validation error",
                        "schema": {
                            "type": "object",
                            "additionalProperties": true
                        }
                    },
                    "401": {
                        "description": "Invalid refresh token",
                        "schema": {
                            "type": "object",
                            "additionalProperties": {
                                "type": "string"
                            }
                        }
                    },
                    "403": {
                        "description": "Account disabled",
                        "schema": {
                            "type": "object",
                            "additionalProperties": {
                                "type": "string"
                            }
                        }
                    }
                }
            }
        },
        "/auth/register": {
            "post": {
                "description": "Create a new user account and receive a JWT token",
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "auth"
                ],
                "summary": "Register a new user",
                "parameters": [
                    {
                        "description": "Registration details",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/auth.RegisterRequest"
                        }
                    }
                ],
                "responses": {
                    "201": {
                        "description": "Created",
                        "schema": {
                            "$ref": "#/definitions/auth.AuthResponse"
                        }
                    },
                    "400": {
                        "description": "Validation error",
                        "schema": {
                            "type": "object",
                            "additionalProperties": true
                        }
                    },
                    "409": {
                        "description": "Email or username already registered",
                        "schema": {
                            "type": "object",
                            "additionalProperties": {
                                "type": "string"
                            }
                        }
                    }
                }
            }
        },
        "/badges": {
            "get": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "description": "Active badges that are not hidden",
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "badges"
                ],
                "summary": "List badges",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "array",
                            "items": {
                                "$ref": "#/definitions/badges.BadgeResponse"
                            }
                        }
                    }
                }
            }
        },
        "/badges/earned": {
            "get": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "description": "Earned returns the caller's badges",
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "badges"
                ],
                "summary": "List earned badges",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "array",
                            "items": {
                                "$ref": "#/definitions/badges.EarnedBadgeResponse"
                            }
                        }
                    }
                }
            }
        },
        "/badges/missions": {
            "get": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "description": "Active missions whose period includes the current time",
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "badges"
                ],
                "summary": "List missions",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "array",
                            "items": {
                                "$ref": "#/definitions/badges.MissionResponse"
                            }
                        }
                    }
                }
            }
        },
        "/badges/missions/mine": {
            "get": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "description": "Progress on every mission period the caller has recorded activity in",
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "badges"
                ],
                "summary": "List my missions",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "array",
                            "items": {
                                "$ref": "#/definitions/badges.UserMissionResponse"
                            }
                        }
                    }
                }
            }
        },
        "/dashboard/summary": {
            "get": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "description": "Today's and this week's activity with the caller's environmental impact",
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "dashboard"
                ],
                "summary": "Dashboard summary",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/activities.Dashboard"
                        }
                    }
                }
            }
        },
        "/families": {
            "get": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "description": "List returns the families the user is an active member of",
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "families"
                ],
                "summary": "List my families",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "array",
                            "items": {
                                "$ref": "#/definitions/families.FamilyListItem"
                            }
                        }
                    }
                }
            },
            "post": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "description": "Create a family; the caller becomes its creator and first member",
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "families"
                ],
                "summary": "Create family",
                "parameters": [
                    {
                        "description": "Family details",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/families.CreateFamilyRequest"
                        }
                    }
                ],
                "responses": {
                    "201": {
                        "description": "Created",
                        "schema": {
                            "$ref": "#/definitions/families.FamilyResponse"
                        }
                    },
                    "400": {
                        "description": "Validation error",
                        "schema": {
                            "type": "object",
                            "additionalProperties": true
                        }
                    }
                }
            }
        },
        "/families/join-by-code": {
            "post": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "description": "JoinByCode joins whichever family holds the invite code",
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "families"
                ],
                "summary": "Join family by invite code",
                "parameters": [
                    {
                        "description": "Invite code",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/families.JoinRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/families.JoinResponse"
                        }
                    },
                    "400": {
                        "description": "Family is full",
                        "schema": {
                            "type": "object",
                            "additionalProperties": {
                                "type": "string"
                            }
                        }
                    },
                    "404": {
                        "description": "Unknown invite code",
                        "schema": {
                            "type": "object",
                            "additionalProperties": {
                                "type": "string"
                            }
                        }
                    }
                }
            }
        },
        "/families/ranking": {
            "get": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "description": "Ranking lists public families by points",
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "families"
                ],
                "summary": "Family ranking",
                "parameters": [
                    {
                        "description": "Number of families (default 10, max 100)",
                        "name": "limit",
                        "in": "query",
                        "type": "integer"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "array",
                            "items": {
                                "$ref": "#/definitions/families.RankingResponse"
                            }
                        }
                    }
                }
            }
        },
        "/families/{id}": {
            "get": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "description": "Members see any of their families; others only public ones",
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "families"
                ],
                "summary": "Get family",
                "parameters": [
                    {
                        "description": "Family ID",
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "integer"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/families.FamilyResponse"
                        }
                    },
                    "403": {
                        "description": "Private family",
                        "schema": {
                            "type": "object",
                            "additionalProperties": {
                                "type": "string"
                            }
                        }
                    },
                    "404": {
                        "description": "Family not found",
                        "schema": {
                            "type": "object",
                            "additionalProperties": {
                                "type": "string"
                            }
                        }
                    }
                }
            },
            "put": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "description": "Partial update; creator or admin only",
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "families"
                ],
                "summary": "Update family",
                "parameters": [
                    {
                        "description": "Family ID",
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "integer"
                    },
                    {
                        "description": "Fields to change",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/families.UpdateFamilyRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/families.FamilyResponse"
                        }
                    },
                    "400": {
                        "description": "Validation error",
                        "schema": {
                            "type": "object",
                            "additionalProperties": true
                        }
                    },
                    "403": {
                        "description": "Insufficient role",
                        "schema": {
                            "type": "object",
                            "additionalProperties": {
                                "type": "string"
                            }
                        }
                    },
                    "404": {
                        "description": "Family not found",
                        "schema": {
                            "type": "object",
                            "additionalProperties": {
                                "type": "string"
                            }
                        }
                    }
                }
            }
        },
        "/families/{id}/join": {
            "post": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "description": "Join joins the family in the path with its invite code",
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "families"
                ],
                "summary": "Join family",
                "parameters": [
                    {
                        "description": "Family ID",
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "integer"
                    },
                    {
                        "description": "Invite code",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/families.JoinRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/families.JoinResponse"
                        }
                    },
                    "400": {
                        "description": "Family is full",
                        "schema": {
                            "type": "object",
                            "additionalProperties": {
                                "type": "string"
                            }
                        }
                    },
                    "404": {
                        "description": "Invite code does not match",
                        "schema": {
                            "type": "object",
                            "additionalProperties": {
                                "type": "string"
                            }
                        }
                    }
                }
            }
        },
        "/families/{id}/leave": {
            "delete": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "description": "A creator leaving a family with other members must name a successor",
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "families"
                ],
                "summary": "Leave family",
                "parameters": [
                    {
                        "description": "Family ID",
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "integer"
                    },
                    {
                        "description": "User ID of the new creator",
                        "name": "transfer_to_user_id",
                        "in": "query",
                        "type": "integer"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/families.LeaveResponse"
                        }
                    },
                    "400": {
                        "description": "Successor required",
                        "schema": {
                            "type": "object",
                            "additionalProperties": {
                                "type": "string"
                            }
                        }
                    },
                    "404": {
                        "description": "Not a member",
                        "schema": {
                            "type": "object",
                            "additionalProperties": {
                                "type": "string"
                            }
                        }
                    }
                }
            }
        },
        "/families/{id}/members": {
            "get": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "description": "ListMembers returns the active members of a family",
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "families"
                ],
                "summary": "List family members",
                "parameters": [
                    {
                        "description": "Family ID",
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "integer"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "array",
                            "items": {
                                "$ref": "#/definitions/families.MemberResponse"
                            }
                        }
                    },
                    "403": {
                        "description": "Private family",
                        "schema": {
                            "type": "object",
                            "additionalProperties": {
                                "type": "string"
                            }
                        }
                    },
                    "404": {
                        "description": "Family not found",
                        "schema": {
                            "type": "object",
                            "additionalProperties": {
                                "type": "string"
                            }
                        }
                    }
                }
            }
        },
        "/families/{id}/members/{memberId}": {
            "put": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "description": "Creator or admin; only the creator may change roles",
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "families"
                ],
                "summary": "Update family member",
                "parameters": [
                    {
                        "description": "Family ID",
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "integer"
                    },
                    {
                        "description": "Membership ID",
                        "name": "memberId",
                        "in": "path",
                        "required": true,
                        "type": "integer"
                    },
                    {
                        "description": "Fields to change",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/families.UpdateMemberRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/families.MemberResponse"
                        }
                    },
                    "400": {
                        "description": "Validation error",
                        "schema": {
                            "type": "object",
                            "additionalProperties": true
                        }
                    },
                    "403": {
                        "description": "Insufficient role",
                        "schema": {
                            "type": "object",
                            "additionalProperties": {
                                "type": "string"
                            }
                        }
                    },
                    "404": {
                        "description": "Member not found",
                        "schema": {
                            "type": "object",
                            "additionalProperties": {
                                "type": "string"
                            }
                        }
                    }
                }
            },
            "delete": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "description": "Creator only; the creator cannot remove themselves",
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "families"
                ],
                "summary": "Remove family member",
                "parameters": [
                    {
                        "description": "Family ID",
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "integer"
                    },
                    {
                        "description": "Membership ID",
                        "name": "memberId",
                        "in": "path",
                        "required": true,
                        "type": "integer"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "object",
                            "additionalProperties": {
                                "type": "string"
                            }
                        }
                    },
                    "400": {
                        "description": "Self removal",
                        "schema": {
                            "type": "object",
                            "additionalProperties": {
                                "type": "string"
                            }
                        }
                    },
                    "403": {
                        "description": "Creator only",
                        "schema": {
                            "type": "object",
                            "additionalProperties": {
                                "type": "string"
                            }
                        }
                    },
                    "404": {
                        "description": "Member not found",
                        "schema": {
                            "type": "object",
                            "additionalProperties": {
                                "type": "string"
                            }
                        }
                    }
                }
            }
        },
        "/families/{id}/stats": {
            "get": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "description": "Stats returns the family statistics",
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "families"
                ],
                "summary": "Family statistics",
                "parameters": [
                    {
                        "description": "Family ID",
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "integer"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/families.Stats"
                        }
                    },
                    "403": {
                        "description": "Not a member",
                        "schema": {
                            "type": "object",
                            "additionalProperties": {
                                "type": "string"
                            }
                        }
                    },
                    "404": {
                        "description": "Family not found",
                        "schema": {
                            "type": "object",
                            "additionalProperties": {
                                "type": "string"
                            }
                        }
                    }
                }
            }
        },
        "/families/{id}/transfer": {
            "post": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "description": "Creator only; the previous creator becomes an admin",
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "families"
                ],
                "summary": "Transfer ownership",
                "parameters": [
                    {
                        "description": "Family ID",
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "integer"
                    },
                    {
                        "description": "New creator",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/families.TransferRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/families.FamilyResponse"
                        }
                    },
                    "403": {
                        "description": "Creator only",
                        "schema": {
                            "type": "object",
                            "additionalProperties": {
                                "type": "string"
                            }
                        }
                    },
                    "404": {
                        "description": "Target is not a member",
                        "schema": {
                            "type": "object",
                            "additionalProperties": {
                                "type": "string"
                            }
                        }
                    }
                }
            }
        },
        "/users/me": {
            "delete": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "description": "DeleteMe deletes the caller's account. The user leaves every family, handing created families to a successor, and their API keys are revoked. Usernames and emails of deleted accounts stay reserved.",
                "tags": [
                    "users"
                ],
                "summary": "Delete my account",
                "responses": {
                    "204": {
                        "description": "Account deleted"
                    }
                }
            },
            "get": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "description": "Me returns the caller's profile",
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "users"
                ],
                "summary": "Get my profile",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/auth.UserResponse"
                        }
                    }
                }
            },
            "put": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "description": "UpdateMe updates the caller's profile",
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "users"
                ],
                "summary": "Update my profile",
                "parameters": [
                    {
                        "description": "Fields to change",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/users.UpdateProfileRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/auth.UserResponse"
                        }
                    },
                    "400": {
                        "description": "Validation error",
                        "schema": {
                            "type": "object",
                            "additionalProperties": true
                        }
                    }
                }
            }
        },
        "/users/me/activity-summary": {
            "get": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "description": "ActivitySummary returns the caller's activity over the last week",
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "users"
                ],
                "summary": "My activity summary",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/users.ActivitySummaryResponse"
                        }
                    }
                }
            }
        },
        "/users/me/deactivate": {
            "post": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "description": "Deactivate disables the caller's account. API keys stop working and the user drops out of rankings until the account is reactivated.",
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "users"
                ],
                "summary": "Deactivate my account",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "object",
                            "additionalProperties": {
                                "type": "string"
                            }
                        }
                    }
                }
            }
        },
        "/users/me/notifications/settings": {
            "get": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "description": "NotificationSettings returns the caller's notification preferences",
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "users"
                ],
                "summary": "Get notification settings",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/models.NotificationSettings"
                        }
                    }
                }
            },
            "put": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "description": "UpdateNotificationSettings changes the given notification preferences",
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "users"
                ],
                "summary": "Update notification settings",
                "parameters": [
                    {
                        "description": "Preferences to change",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/users.NotificationSettingsRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/models.NotificationSettings"
                        }
                    },
                    "400": {
                        "description": "Validation error",
                        "schema": {
                            "type": "object",
                            "additionalProperties": true
                        }
                    }
                }
            }
        },
        "/users/me/password": {
            "put": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "description": "ChangePassword replaces the caller's password",
                "consumes": [
                    "application/json"
                ],
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "users"
                ],
                "summary": "Change password",
                "parameters": [
                    {
                        "description": "Current and new password",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "$ref": "#/definitions/users.ChangePasswordRequest"
                        }
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "object",
                            "additionalProperties": {
                                "type": "string"
                            }
                        }
                    },
                    "400": {
                        "description": "Validation error",
                        "schema": {
                            "type": "object",
                            "additionalProperties": true
                        }
                    },
                    "401": {
                        "description": "Wrong current password",
                        "schema": {
                            "type": "object",
                            "additionalProperties": {
                                "type": "string"
                            }
                        }
                    }
                }
            }
        },
        "/users/me/reactivate": {
            "post": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "description": "Reactivate enables a deactivated account. It needs a JWT since API keys of inactive users are refused.",
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "users"
                ],
                "summary": "Reactivate my account",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "object",
                            "additionalProperties": {
                                "type": "string"
                            }
                        }
                    },
                    "404": {
                        "description": "User not found",
                        "schema": {
                            "type": "object",
                            "additionalProperties": {
                                "type": "string"
                            }
                        }
                    }
                }
            }
        },
        "/users/me/stats": {
            "get": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "description": "Stats returns the caller's progress and global rank",
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "users"
                ],
                "summary": "My statistics",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/users.StatsResponse"
                        }
                    }
                }
            }
        },
        "/users/ranking": {
            "get": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "description": "Ranking lists active users by points",
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "users"
                ],
                "summary": "User ranking",
                "parameters": [
                    {
                        "description": "Number of users (default 10, max 100)",
                        "name": "limit",
                        "in": "query",
                        "type": "integer"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "type": "array",
                            "items": {
                                "$ref": "#/definitions/users.RankingEntry"
                            }
                        }
                    }
                }
            }
        },
        "/users/{id}": {
            "get": {
                "security": [
                    {
                        "BearerAuth": []
                    }
                ],
                "description": "Private profiles are reduced to identity fields unless requested by their owner",
                "produces": [
                    "application/json"
                ],
                "tags": [
                    "users"
                ],
                "summary": "Get user profile",
                "parameters": [
                    {
                        "description": "User ID",
                        "name": "id",
                        "in": "path",
                        "required": true,
                        "type": "integer"
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "$ref": "#/definitions/users.ProfileResponse"
                        }
                    },
                    "404": {
                        "description": "User not found",
                        "schema": {
                            "type": "object",
                            "additionalProperties": {
                                "type": "string"
                            }
                        }
                    }
                }
            }
        }
    },
    "definitions": {
        "activities.ActivityResponse": {
            "type": "object",
            "properties": {
                "activity_date": {
                    "type": "string"
                },
                "category": {
                    "type": "string"
                },
                "co2_reduction": {
                    "type": "number"
                },
                "created_at": {
                    "type": "string"
                },
                "description": {
                    "type": "string"
                },
                "energy_saved": {
                    "type": "number"
                },
                "environmental_impact": {
                    "type": "number"
                },
                "family_id": {
                    "type": "integer"
                },
                "id": {
                    "type": "integer"
                },
                "latitude": {
                    "type": "number"
                },
                "location_name": {
                    "type": "string"
                },
                "longitude": {
                    "type": "number"
                },
                "photo_url": {
                    "type": "string"
                },
                "points": {
                    "type": "integer"
                },
                "status": {
                    "type": "string"
                },
                "title": {
                    "type": "string"
                },
                "user_id": {
                    "type": "integer"
                },
                "verification_note": {
                    "type": "string"
                },
                "verified_at": {
                    "type": "string"
                },
                "verified_by": {
                    "type": "integer"
                },
                "water_saved": {
                    "type": "number"
                }
            }
        },
        "activities.CreateActivityRequest": {
            "type": "object",
            "required": [
                "family_id",
                "title",
                "category"
            ],
            "properties": {
                "activity_date": {
                    "type": "string"
                },
                "category": {
                    "type": "string"
                },
                "co2_reduction": {
                    "type": "number"
                },
                "description": {
                    "type": "string"
                },
                "energy_saved": {
                    "type": "number"
                },
                "family_id": {
                    "type": "integer"
                },
                "latitude": {
                    "type": "number"
                },
                "location_name": {
                    "type": "string"
                },
                "longitude": {
                    "type": "number"
                },
                "photo_url": {
                    "type": "string"
                },
                "title": {
                    "type": "string"
                },
                "water_saved": {
                    "type": "number"
                }
            }
        },
        "activities.Dashboard": {
            "type": "object",
            "properties": {
                "environmental_impact": {
                    "$ref": "#/definitions/activities.EnvironmentalImpact"
                },
                "today": {
                    "$ref": "#/definitions/activities.PeriodSummary"
                },
                "user": {
                    "$ref": "#/definitions/activities.DashboardUser"
                },
                "week": {
                    "$ref": "#/definitions/activities.PeriodSummary"
                }
            }
        },
        "activities.DashboardUser": {
            "type": "object",
            "properties": {
                "level": {
                    "type": "integer"
                },
                "streak_days": {
                    "type": "integer"
                },
                "total_activities": {
                    "type": "integer"
                },
                "total_points": {
                    "type": "integer"
                },
                "username": {
                    "type": "string"
                }
            }
        },
        "activities.EnvironmentalImpact": {
            "type": "object",
            "properties": {
                "equivalent_trees": {
                    "type": "integer"
                },
                "total_co2_saved": {
                    "type": "number"
                }
            }
        },
        "activities.ListResponse": {
            "type": "object",
            "properties": {
                "activities": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/activities.ActivityResponse"
                    }
                },
                "page": {
                    "type": "integer"
                },
                "pages": {
                    "type": "integer"
                },
                "size": {
                    "type": "integer"
                },
                "total": {
                    "type": "integer"
                }
            }
        },
        "activities.PeriodSummary": {
            "type": "object",
            "properties": {
                "activities": {
                    "type": "integer"
                },
                "points": {
                    "type": "integer"
                }
            }
        },
        "activities.RecordResponse": {
            "type": "object",
            "properties": {
                "activity": {
                    "$ref": "#/definitions/activities.ActivityResponse"
                },
                "completed_missions": {
                    "type": "array",
                    "items": {
                        "type": "string"
                    }
                },
                "level": {
                    "type": "integer"
                },
                "level_up": {
                    "type": "boolean"
                },
                "new_badges": {
                    "type": "array",
                    "items": {
                        "type": "string"
                    }
                },
                "streak_days": {
                    "type": "integer"
                },
                "total_points": {
                    "type": "integer"
                }
            }
        },
        "activities.Stats": {
            "type": "object",
            "properties": {
                "activities_this_month": {
                    "type": "integer"
                },
                "activities_this_week": {
                    "type": "integer"
                },
                "average_points_per_activity": {
                    "type": "number"
                },
                "environmental_impact_score": {
                    "type": "number"
                },
                "favorite_category": {
                    "type": "string"
                },
                "points_this_month": {
                    "type": "integer"
                },
                "points_this_week": {
                    "type": "integer"
                },
                "streak_days": {
                    "type": "integer"
                },
                "total_activities": {
                    "type": "integer"
                },
                "total_co2_saved": {
                    "type": "number"
                },
                "total_energy_saved": {
                    "type": "number"
                },
                "total_points": {
                    "type": "integer"
                },
                "total_water_saved": {
                    "type": "number"
                }
            }
        },
        "activities.VerifyRequest": {
            "type": "object",
            "required": [
                "status"
            ],
            "properties": {
                "note": {
                    "type": "string"
                },
                "status": {
                    "type": "string"
                }
            }
        },
        "apikeys.APIKeyResponse": {
            "type": "object",
            "properties": {
                "created_at": {
                    "type": "string"
                },
                "description": {
                    "type": "string"
                },
                "id": {
                    "type": "integer"
                },
                "key_prefix": {
                    "type": "string"
                },
                "last_used_at": {
                    "type": "string"
                }
            }
        },
        "apikeys.CreateAPIKeyRequest": {
            "type": "object",
            "properties": {
                "description": {
                    "type": "string"
                }
            }
        },
        "apikeys.CreateAPIKeyResponse": {
            "type": "object",
            "properties": {
                "created_at": {
                    "type": "string"
                },
                "description": {
                    "type": "string"
                },
                "id": {
                    "type": "integer"
                },
                "key": {
                    "type": "string"
                },
                "key_prefix": {
                    "type": "string"
                }
            }
        },
        "auth.AuthResponse": {
            "type": "object",
            "properties": {
                "refresh_token": {
                    "type": "string"
                },
                "token": {
                    "type": "string"
                },
                "token_type": {
                    "type": "string"
                },
                "user": {
                    "$ref": "#/definitions/auth.UserResponse"
                }
            }
        },
        "auth.AvailabilityResponse": {
            "type": "object",
            "properties": {
                "available": {
                    "type": "boolean"
                },
                "email": {
                    "type": "string"
                },
                "issues": {
                    "type": "array",
                    "items": {
                        "type": "string"
                    }
                },
                "reason": {
                    "type": "string"
                },
                "username": {
                    "type": "string"
                }
            }
        },
        "auth.LoginRequest": {
            "type": "object",
            "required": [
                "login",
                "password"
            ],
            "properties": {
                "login": {
                    "type": "string"
                },
                "password": {
                    "type": "string"
                }
            }
        },
        "auth.RefreshRequest": {
            "type": "object",
            "required": [
                "refresh_token"
            ],
            "properties": {
                "refresh_token": {
                    "type": "string"
                }
            }
        },
        "auth.RegisterRequest": {
            "type": "object",
            "required": [
                "email",
                "username",
                "password"
            ],
            "properties": {
                "email": {
                    "type": "string"
                },
                "full_name": {
                    "type": "string"
                },
                "password": {
                    "type": "string"
                },
                "username": {
                    "type": "string"
                }
            }
        },
        "auth.UserResponse": {
            "type": "object",
            "properties": {
                "avatar_url": {
                    "type": "string"
                },
                "bio": {
                    "type": "string"
                },
                "created_at": {
                    "type": "string"
                },
                "email": {
                    "type": "string"
                },
                "experience_points": {
                    "type": "integer"
                },
                "full_name": {
                    "type": "string"
                },
                "id": {
                    "type": "integer"
                },
                "is_active": {
                    "type": "boolean"
                },
                "is_public_profile": {
                    "type": "boolean"
                },
                "last_activity_at": {
                    "type": "string"
                },
                "level": {
                    "type": "integer"
                },
                "location": {
                    "type": "string"
                },
                "notification_enabled": {
                    "type": "boolean"
                },
                "streak_days": {
                    "type": "integer"
                },
                "total_activities": {
                    "type": "integer"
                },
                "total_co2_saved": {
                    "type": "number"
                },
                "total_points": {
                    "type": "integer"
                },
                "username": {
                    "type": "string"
                }
            }
        },
        "badges.BadgeResponse": {
            "type": "object",
            "properties": {
                "category": {
                    "type": "string"
                },
                "criteria": {
                    "type": "string"
                },
                "description": {
                    "type": "string"
                },
                "experience_reward": {
                    "type": "integer"
                },
                "icon": {
                    "type": "string"
                },
                "id": {
                    "type": "integer"
                },
                "name": {
                    "type": "string"
                },
                "points_reward": {
                    "type": "integer"
                }
            }
        },
        "badges.EarnedBadgeResponse": {
            "type": "object",
            "properties": {
                "badge": {
                    "$ref": "#/definitions/badges.BadgeResponse"
                },
                "earned_at": {
                    "type": "string"
                }
            }
        },
        "badges.MissionResponse": {
            "type": "object",
            "properties": {
                "badge_reward_id": {
                    "type": "integer"
                },
                "category": {
                    "type": "string"
                },
                "description": {
                    "type": "string"
                },
                "difficulty_level": {
                    "type": "integer"
                },
                "end_date": {
                    "type": "string"
                },
                "experience_reward": {
                    "type": "integer"
                },
                "id": {
                    "type": "integer"
                },
                "metric": {
                    "type": "string"
                },
                "mission_type": {
                    "type": "string"
                },
                "points_reward": {
                    "type": "integer"
                },
                "short_description": {
                    "type": "string"
                },
                "start_date": {
                    "type": "string"
                },
                "target_value": {
                    "type": "number"
                },
                "title": {
                    "type": "string"
                }
            }
        },
        "badges.UserMissionResponse": {
            "type": "object",
            "properties": {
                "completed_at": {
                    "type": "string"
                },
                "expires_at": {
                    "type": "string"
                },
                "id": {
                    "type": "integer"
                },
                "is_completed": {
                    "type": "boolean"
                },
                "mission": {
                    "$ref": "#/definitions/badges.MissionResponse"
                },
                "progress": {
                    "type": "number"
                },
                "progress_percentage": {
                    "type": "number"
                },
                "started_at": {
                    "type": "string"
                }
            }
        },
        "families.ActiveMember": {
            "type": "object",
            "properties": {
                "activity_count": {
                    "type": "integer"
                },
                "full_name": {
                    "type": "string"
                },
                "user_id": {
                    "type": "integer"
                },
                "username": {
                    "type": "string"
                }
            }
        },
        "families.CreateFamilyRequest": {
            "type": "object",
            "required": [
                "name"
            ],
            "properties": {
                "description": {
                    "type": "string"
                },
                "family_goal": {
                    "type": "string"
                },
                "is_public": {
                    "type": "boolean"
                },
                "max_members": {
                    "type": "integer"
                },
                "monthly_target_points": {
                    "type": "integer"
                },
                "name": {
                    "type": "string"
                }
            }
        },
        "families.FamilyListItem": {
            "type": "object",
            "properties": {
                "description": {
                    "type": "string"
                },
                "id": {
                    "type": "integer"
                },
                "is_public": {
                    "type": "boolean"
                },
                "joined_at": {
                    "type": "string"
                },
                "max_members": {
                    "type": "integer"
                },
                "member_count": {
                    "type": "integer"
                },
                "name": {
                    "type": "string"
                },
                "role": {
                    "type": "string"
                },
                "total_points": {
                    "type": "integer"
                }
            }
        },
        "families.FamilyResponse": {
            "type": "object",
            "properties": {
                "created_at": {
                    "type": "string"
                },
                "creator_id": {
                    "type": "integer"
                },
                "current_user_is_member": {
                    "type": "boolean"
                },
                "current_user_role": {
                    "type": "string"
                },
                "description": {
                    "type": "string"
                },
                "family_goal": {
                    "type": "string"
                },
                "id": {
                    "type": "integer"
                },
                "invite_code": {
                    "type": "string"
                },
                "is_public": {
                    "type": "boolean"
                },
                "max_members": {
                    "type": "integer"
                },
                "member_count": {
                    "type": "integer"
                },
                "members": {
                    "type": "array",
                    "items": {
                        "$ref": "#/definitions/families.MemberResponse"
                    }
                },
                "monthly_target_points": {
                    "type": "integer"
                },
                "name": {
                    "type": "string"
                },
                "total_activities": {
                    "type": "integer"
                },
                "total_co2_saved": {
                    "type": "number"
                },
                "total_points": {
                    "type": "integer"
                },
                "updated_at": {
                    "type": "string"
                }
            }
        },
        "families.JoinRequest": {
            "type": "object",
            "required": [
                "invite_code"
            ],
            "properties": {
                "invite_code": {
                    "type": "string"
                }
            }
        },
        "families.JoinResponse": {
            "type": "object",
            "properties": {
                "family_id": {
                    "type": "integer"
                },
                "family_name": {
                    "type": "string"
                },
                "message": {
                    "type": "string"
                },
                "role": {
                    "type": "string"
                },
                "success": {
                    "type": "boolean"
                }
            }
        },
        "families.LeaveResponse": {
            "type": "object",
            "properties": {
                "family_deleted": {
                    "type": "boolean"
                },
                "message": {
                    "type": "string"
                },
                "new_creator_id": {
                    "type": "integer"
                }
            }
        },
        "families.MemberResponse": {
            "type": "object",
            "properties": {
                "activities_count": {
                    "type": "integer"
                },
                "avatar_url": {
                    "type": "string"
                },
                "full_name": {
                    "type": "string"
                },
                "id": {
                    "type": "integer"
                },
                "is_active": {
                    "type": "boolean"
                },
                "joined_at": {
                    "type": "string"
                },
                "last_activity_at": {
                    "type": "string"
                },
                "nickname": {
                    "type": "string"
                },
                "notification_enabled": {
                    "type": "boolean"
                },
                "points_contributed": {
                    "type": "integer"
                },
                "role": {
                    "type": "string"
                },
                "user_id": {
                    "type": "integer"
                },
                "username": {
                    "type": "string"
                }
            }
        },
        "families.RankingResponse": {
            "type": "object",
            "properties": {
                "average_points_per_member": {
                    "type": "number"
                },
                "description": {
                    "type": "string"
                },
                "family_id": {
                    "type": "integer"
                },
                "member_count": {
                    "type": "integer"
                },
                "name": {
                    "type": "string"
                },
                "rank": {
                    "type": "integer"
                },
                "total_activities": {
                    "type": "integer"
                },
                "total_points": {
                    "type": "integer"
                }
            }
        },
        "families.Stats": {
            "type": "object",
            "properties": {
                "activities_this_month": {
                    "type": "integer"
                },
                "activities_this_week": {
                    "type": "integer"
                },
                "average_points_per_member": {
                    "type": "number"
                },
                "favorite_activity_category": {
                    "type": "string"
                },
                "member_count": {
                    "type": "integer"
                },
                "monthly_goal_progress": {
                    "type": "number"
                },
                "most_active_member": {
                    "$ref": "#/definitions/families.ActiveMember"
                },
                "points_this_month": {
                    "type": "integer"
                },
                "points_this_week": {
                    "type": "integer"
                },
                "total_activities": {
                    "type": "integer"
                },
                "total_co2_saved": {
                    "type": "number"
                },
                "total_points": {
                    "type": "integer"
                }
            }
        },
        "families.TransferRequest": {
            "type": "object",
            "required": [
                "user_id"
            ],
            "properties": {
                "user_id": {
                    "type": "integer"
                }
            }
        },
        "families.UpdateFamilyRequest": {
            "type": "object",
            "properties": {
                "description": {
                    "type": "string"
                },
                "family_goal": {
                    "type": "string"
                },
                "is_public": {
                    "type": "boolean"
                },
                "max_members": {
                    "type": "integer"
                },
                "monthly_target_points": {
                    "type": "integer"
                },
                "name": {
                    "type": "string"
                }
            }
        },
        "families.UpdateMemberRequest": {
            "type": "object",
            "properties": {
                "nickname": {
                    "type": "string"
                },
                "notification_enabled": {
                    "type": "boolean"
                },
                "role": {
                    "type": "string"
                }
            }
        },
        "models.NotificationSettings": {
            "type": "object",
            "properties": {
                "activity_reminders": {
                    "type": "boolean"
                },
                "badge_notifications": {
                    "type": "boolean"
                },
                "email_notifications": {
                    "type": "boolean"
                },
                "family_updates": {
                    "type": "boolean"
                },
                "mission_notifications": {
                    "type": "boolean"
                },
                "push_notifications": {
                    "type": "boolean"
                },
                "updated_at": {
                    "type": "string"
                },
                "weekly_summary": {
                    "type": "boolean"
                }
            }
        },
        "users.ActivitySummaryResponse": {
            "type": "object",
            "properties": {
                "avatar_url": {
                    "type": "string"
                },
                "full_name": {
                    "type": "string"
                },
                "last_activity": {
                    "type": "string"
                },
                "level": {
                    "type": "integer"
                },
                "recent_activities": {
                    "type": "integer"
                },
                "total_points": {
                    "type": "integer"
                },
                "user_id": {
                    "type": "integer"
                },
                "username": {
                    "type": "string"
                }
            }
        },
        "users.ChangePasswordRequest": {
            "type": "object",
            "required": [
                "current_password",
                "new_password"
            ],
            "properties": {
                "current_password": {
                    "type": "string"
                },
                "new_password": {
                    "type": "string"
                }
            }
        },
        "users.NotificationSettingsRequest": {
            "type": "object",
            "properties": {
                "activity_reminders": {
                    "type": "boolean"
                },
                "badge_notifications": {
                    "type": "boolean"
                },
                "email_notifications": {
                    "type": "boolean"
                },
                "family_updates": {
                    "type": "boolean"
                },
                "mission_notifications": {
                    "type": "boolean"
                },
                "push_notifications": {
                    "type": "boolean"
                },
                "weekly_summary": {
                    "type": "boolean"
                }
            }
        },
        "users.ProfileResponse": {
            "type": "object",
            "properties": {
                "avatar_url": {
                    "type": "string"
                },
                "bio": {
                    "type": "string"
                },
                "full_name": {
                    "type": "string"
                },
                "id": {
                    "type": "integer"
                },
                "is_public_profile": {
                    "type": "boolean"
                },
                "level": {
                    "type": "integer"
                },
                "location": {
                    "type": "string"
                },
                "streak_days": {
                    "type": "integer"
                },
                "total_activities": {
                    "type": "integer"
                },
                "total_co2_saved": {
                    "type": "number"
                },
                "total_points": {
                    "type": "integer"
                },
                "username": {
                    "type": "string"
                }
            }
        },
        "users.RankingEntry": {
            "type": "object",
            "properties": {
                "avatar_url": {
                    "type": "string"
                },
                "display_name": {
                    "type": "string"
                },
                "level": {
                    "type": "integer"
                },
                "rank": {
                    "type": "integer"
                },
                "total_co2_saved": {
                    "type": "number"
                },
                "total_points": {
                    "type": "integer"
                },
                "user_id": {
                    "type": "integer"
                },
                "username": {
                    "type": "string"
                }
            }
        },
        "users.StatsResponse": {
            "type": "object",
            "properties": {
                "badges_earned": {
                    "type": "integer"
                },
                "experience_for_next_level": {
                    "type": "integer"
                },
                "experience_points": {
                    "type": "integer"
                },
                "families_count": {
                    "type": "integer"
                },
                "last_activity_at": {
                    "type": "string"
                },
                "level": {
                    "type": "integer"
                },
                "level_progress": {
                    "type": "number"
                },
                "rank": {
                    "type": "integer"
                },
                "streak_days": {
                    "type": "integer"
                },
                "total_activities": {
                    "type": "integer"
                },
                "total_co2_saved": {
                    "type": "number"
                },
                "total_points": {
                    "type": "integer"
                }
            }
        },
        "users.UpdateProfileRequest": {
            "type": "object",
            "properties": {
                "avatar_url": {
                    "type": "string"
                },
                "bio": {
                    "type": "string"
                },
                "full_name": {
                    "type": "string"
                },
                "is_public_profile": {
                    "type": "boolean"
                },
                "location": {
                    "type": "string"
                },
                "notification_enabled": {
                    "type": "boolean"
                }
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "description": "JWT token or API key. Format: \"Bearer {token}\"",
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/api",
	Schemes:          []string{},
	Title:            "WePlanet API",
	Description:      "Household eco-activity tracking with families, points, levels and badges.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
