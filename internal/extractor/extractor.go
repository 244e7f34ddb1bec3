// Package extractor turns Go source text into normalized route records.
// It recognizes method-style registration calls on a router object
// (r.Get("/users", h), app.GET("/users", h)), Go 1.22 mux patterns
// (mux.HandleFunc("GET /users", h)) and fuego/huma-style documentation
// metadata attached as option arguments or operation struct literals.
package extractor

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"strconv"

	"github.com/modernapi/modernapi/internal/models"
)

// ExtractFile parses src and returns the routes declared in it, in
// declaration order. A file that fails to parse yields zero routes and an
// error; the caller records it as a parse-error warning, never a fatal.
func ExtractFile(filePath string, src []byte) ([]models.Route, error) {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, filePath, src, parser.ParseComments)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", filePath, err)
	}

	var routes []models.Route
	ast.Inspect(file, func(n ast.Node) bool {
		call, ok := n.(*ast.CallExpr)
		if !ok {
			return true
		}
		if route, ok := matchRouteCall(fset, filePath, call); ok {
			routes = append(routes, route)
		}
		return true
	})
	return routes, nil
}

// matchRouteCall checks one call expression against the registration
// idioms. Both the HTTP method and the path template must be derivable,
// otherwise the call is a parse miss and no route is emitted.
//
// A registration always carries a handler after the pattern, so at least
// two arguments are required; this keeps single-argument HTTP-client
// requests (http.Get(url), client.Get(url)) out of the route set.
func matchRouteCall(fset *token.FileSet, filePath string, call *ast.CallExpr) (models.Route, bool) {
	sel, ok := call.Fun.(*ast.SelectorExpr)
	if !ok || !receiverRecognizable(sel.X) || len(call.Args) < 2 {
		return models.Route{}, false
	}

	name := sel.Sel.Name
	var method, path string

	switch {
	case handleIdioms[name]:
		// Method lives inside the pattern string; a dynamic pattern gives
		// us neither method nor path, so it cannot become a route.
		pattern, ok := stringLiteral(call.Args[0])
		if !ok {
			return models.Route{}, false
		}
		method, path, ok = splitMuxPattern(pattern)
		if !ok {
			return models.Route{}, false
		}
	default:
		method, ok = routeMethods[name]
		if !ok {
			return models.Route{}, false
		}
		if lit, ok := stringLiteral(call.Args[0]); ok {
			path = lit
		} else {
			// A computed path template is still a route; dropping it would
			// undercount the project.
			path = models.DynamicPath
		}
	}

	route := models.Route{
		FilePath:     filePath,
		LineNumber:   fset.Position(call.Pos()).Line,
		HTTPMethod:   method,
		PathTemplate: path,
	}
	for _, arg := range call.Args[1:] {
		applyMetadata(&route, arg)
	}
	return route, true
}

// receiverRecognizable accepts the shapes a router/application object
// takes at a call site: an identifier (r, app, api) or a field selector
// (s.router). Anything else is not a registration idiom.
func receiverRecognizable(expr ast.Expr) bool {
	switch x := expr.(type) {
	case *ast.Ident:
		return true
	case *ast.SelectorExpr:
		_, ok := x.X.(*ast.Ident)
		return ok
	default:
		return false
	}
}

// applyMetadata reads one trailing call argument for documentation
// metadata. Unrecognized arguments (the handler itself, middleware) are
// ignored.
func applyMetadata(route *models.Route, arg ast.Expr) {
	switch a := arg.(type) {
	case *ast.CallExpr:
		name, ok := callName(a)
		if !ok {
			return
		}
		switch {
		case name == metaSummary:
			if lit, ok := firstStringArg(a); ok {
				route.Summary = lit
			}
		case name == metaDescription:
			if lit, ok := firstStringArg(a); ok {
				route.Description = lit
			}
		case name == metaTags:
			for _, tagArg := range a.Args {
				if lit, ok := stringLiteral(tagArg); ok {
					route.Tags = append(route.Tags, lit)
				}
			}
		case responseModelNames[name]:
			route.HasResponseModel = true
		}
	case *ast.CompositeLit:
		applyOperationLiteral(route, a)
	}
}

// applyOperationLiteral reads metadata fields out of an operation struct
// literal (huma.Operation style) passed as an argument.
func applyOperationLiteral(route *models.Route, lit *ast.CompositeLit) {
	for _, elt := range lit.Elts {
		kv, ok := elt.(*ast.KeyValueExpr)
		if !ok {
			continue
		}
		key, ok := kv.Key.(*ast.Ident)
		if !ok {
			continue
		}
		switch {
		case key.Name == metaSummary:
			if s, ok := stringLiteral(kv.Value); ok {
				route.Summary = s
			}
		case key.Name == metaDescription:
			if s, ok := stringLiteral(kv.Value); ok {
				route.Description = s
			}
		case key.Name == metaTags:
			if tags, ok := kv.Value.(*ast.CompositeLit); ok {
				for _, el := range tags.Elts {
					if s, ok := stringLiteral(el); ok {
						route.Tags = append(route.Tags, s)
					}
				}
			}
		case responseModelNames[key.Name]:
			route.HasResponseModel = true
		}
	}
}

// callName extracts the bare name of an option call: option.Summary(...)
// and Summary(...) both yield "Summary". Generic instantiations like
// option.Returns[UserList]() resolve through the index expression.
func callName(call *ast.CallExpr) (string, bool) {
	fun := call.Fun
	if idx, ok := fun.(*ast.IndexExpr); ok {
		fun = idx.X
	}
	if idx, ok := fun.(*ast.IndexListExpr); ok {
		fun = idx.X
	}
	switch f := fun.(type) {
	case *ast.Ident:
		return f.Name, true
	case *ast.SelectorExpr:
		return f.Sel.Name, true
	default:
		return "", false
	}
}

func firstStringArg(call *ast.CallExpr) (string, bool) {
	if len(call.Args) == 0 {
		return "", false
	}
	return stringLiteral(call.Args[0])
}

func stringLiteral(expr ast.Expr) (string, bool) {
	lit, ok := expr.(*ast.BasicLit)
	if !ok || lit.Kind != token.STRING {
		return "", false
	}
	value, err := strconv.Unquote(lit.Value)
	if err != nil {
		return "", false
	}
	return value, true
}
