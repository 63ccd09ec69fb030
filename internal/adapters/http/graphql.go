package http

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/graphql-go/graphql"
	"github.com/graphql-go/graphql/language/ast"

	"github.com/samirrijal/geonotes/internal/core/domain"
	"github.com/samirrijal/geonotes/internal/core/usecases"
)

// numericText accepts a number or a string literal and hands the resolver
// its text, so GraphQL searches go through the same parameter parsing as
// the REST query string.
var numericText = graphql.NewScalar(graphql.ScalarConfig{
	Name:        "NumericText",
	Description: "A number, given either as a numeric literal or as a string.",
	Serialize: func(v interface{}) interface{} {
		return v
	},
	ParseValue: func(v interface{}) interface{} {
		switch t := v.(type) {
		case string:
			return t
		case float64:
			return strconv.FormatFloat(t, 'f', -1, 64)
		case int:
			return strconv.Itoa(t)
		}
		return nil
	},
	ParseLiteral: func(v ast.Value) interface{} {
		switch t := v.(type) {
		case *ast.StringValue:
			return t.Value
		case *ast.FloatValue:
			return t.Value
		case *ast.IntValue:
			return t.Value
		}
		return nil
	},
})

// gqlError exposes the validation kind as an extension code.
type gqlError struct {
	err  error
	code string
}

func (e gqlError) Error() string { return e.err.Error() }

func (e gqlError) Extensions() map[string]interface{} {
	return map[string]interface{}{"code": e.code}
}

func resolverError(ctx context.Context, err error) error {
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		return gqlError{err: verr, code: string(verr.Kind)}
	}
	LoggerFromCtx(ctx).Error("graphql resolver failed", "error", err)
	return gqlError{err: errors.New("internal server error"), code: "internal_error"}
}

func searchArgs(args map[string]interface{}) usecases.RawSearchParams {
	str := func(k string) string {
		s, _ := args[k].(string)
		return s
	}
	return usecases.RawSearchParams{
		Latitude:  str("latitude"),
		Longitude: str("longitude"),
		Radius:    str("radius"),
	}
}

// buildSchema creates the GraphQL schema wired to the search service.
func buildSchema(deps *Dependencies) (graphql.Schema, error) {
	geometryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "PointGeometry",
		Fields: graphql.Fields{
			"type":        &graphql.Field{Type: graphql.String},
			"coordinates": &graphql.Field{Type: graphql.NewList(graphql.Float)},
		},
	})

	centerType := graphql.NewObject(graphql.ObjectConfig{
		Name: "SearchCenter",
		Fields: graphql.Fields{
			"latitude":  &graphql.Field{Type: graphql.Float},
			"longitude": &graphql.Field{Type: graphql.Float},
		},
	})

	userType := graphql.NewObject(graphql.ObjectConfig{
		Name: "User",
		Fields: graphql.Fields{
			"id":       &graphql.Field{Type: graphql.Int},
			"username": &graphql.Field{Type: graphql.String},
		},
	})

	pointType := graphql.NewObject(graphql.ObjectConfig{
		Name: "NearbyPoint",
		Fields: graphql.Fields{
			"id":                  &graphql.Field{Type: graphql.Int},
			"name":                &graphql.Field{Type: graphql.String},
			"description":         &graphql.Field{Type: graphql.String},
			"distance_km":         &graphql.Field{Type: graphql.Float},
			"coordinates":         &graphql.Field{Type: geometryType},
			"created_by":          &graphql.Field{Type: graphql.Int},
			"created_by_username": &graphql.Field{Type: graphql.String},
		},
	})

	pointSummaryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "PointSummary",
		Fields: graphql.Fields{
			"id":          &graphql.Field{Type: graphql.Int},
			"name":        &graphql.Field{Type: graphql.String},
			"coordinates": &graphql.Field{Type: geometryType},
		},
	})

	messageType := graphql.NewObject(graphql.ObjectConfig{
		Name: "NearbyMessage",
		Fields: graphql.Fields{
			"id":          &graphql.Field{Type: graphql.Int},
			"text":        &graphql.Field{Type: graphql.String},
			"created_at":  &graphql.Field{Type: graphql.DateTime},
			"distance_km": &graphql.Field{Type: graphql.Float},
			"point":       &graphql.Field{Type: pointSummaryType},
			"user":        &graphql.Field{Type: userType},
		},
	})

	args := graphql.FieldConfigArgument{
		"latitude":  &graphql.ArgumentConfig{Type: numericText},
		"longitude": &graphql.ArgumentConfig{Type: numericText},
		"radius":    &graphql.ArgumentConfig{Type: numericText, Description: "Kilometres"},
	}

	queryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"pointsNearby": &graphql.Field{
				Type: graphql.NewObject(graphql.ObjectConfig{
					Name: "PointSearchResult",
					Fields: graphql.Fields{
						"search_center": &graphql.Field{Type: centerType},
						"radius_km":     &graphql.Field{Type: graphql.Float},
						"points_found":  &graphql.Field{Type: graphql.Int},
						"points":        &graphql.Field{Type: graphql.NewList(pointType)},
					},
				}),
				Description: "Points within a radius of a center",
				Args:        args,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					q, err := usecases.ParseSearchQuery(searchArgs(p.Args))
					if err != nil {
						return nil, resolverError(p.Context, err)
					}
					res, err := deps.Search.SearchPoints(p.Context, q)
					if err != nil {
						return nil, resolverError(p.Context, err)
					}
					return res, nil
				},
			},
			"messagesNearby": &graphql.Field{
				Type: graphql.NewObject(graphql.ObjectConfig{
					Name: "MessageSearchResult",
					Fields: graphql.Fields{
						"search_center":  &graphql.Field{Type: centerType},
						"radius_km":      &graphql.Field{Type: graphql.Float},
						"messages_found": &graphql.Field{Type: graphql.Int},
						"messages":       &graphql.Field{Type: graphql.NewList(messageType)},
					},
				}),
				Description: "Messages attached to points within a radius of a center",
				Args:        args,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					q, err := usecases.ParseSearchQuery(searchArgs(p.Args))
					if err != nil {
						return nil, resolverError(p.Context, err)
					}
					res, err := deps.Search.SearchMessages(p.Context, q)
					if err != nil {
						return nil, resolverError(p.Context, err)
					}
					return res, nil
				},
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{
		Query: queryType,
	})
}

// GraphQLHandler serves the GraphQL endpoint.
func GraphQLHandler(deps *Dependencies) fiber.Handler {
	schema, err := buildSchema(deps)
	if err != nil {
		panic(fmt.Sprintf("graphql schema build: %v", err))
	}

	type gqlRequest struct {
		Query         string                 `json:"query"`
		OperationName string                 `json:"operationName"`
		Variables     map[string]interface{} `json:"variables"`
	}

	return func(c *fiber.Ctx) error {
		var req gqlRequest
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid request body")
		}

		result := graphql.Do(graphql.Params{
			Schema:         schema,
			RequestString:  req.Query,
			VariableValues: req.Variables,
			OperationName:  req.OperationName,
			Context:        c.UserContext(),
		})

		return c.JSON(result)
	}
}
