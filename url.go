package routing

import "net/url"

// URL builds the path of a named route.
func (r *Router) URL(name string, params map[string]string) (string, bool) {
	route, ok := r.named[name]
	if !ok {
		return "", false
	}
	return route.path.Build(params)
}

// URLWithQuery builds the path of a named route and attaches query params.
func (r *Router) URLWithQuery(name string, params map[string]string, query map[string]string) (string, bool) {
	path, ok := r.URL(name, params)
	if !ok {
		return "", false
	}
	return buildQuery(path, query), true
}

func buildQuery(path string, query map[string]string) string {
	if len(query) == 0 {
		return path
	}
	values := url.Values{}
	for key, value := range query {
		values.Set(key, value)
	}
	return path + "?" + values.Encode()
}
