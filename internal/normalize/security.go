package normalize

import (
	"openapi-mcp-navigator/internal/model"
	"openapi-mcp-navigator/internal/parser"
)

func normalizeSecuritySchemes(doc *parser.RawDocument) []model.SecurityScheme {
	out := make([]model.SecurityScheme, 0, len(doc.SecurityOrder))
	for _, name := range doc.SecurityOrder {
		raw := doc.SecuritySchemes[name]
		s := model.SecurityScheme{
			Name:             name,
			Kind:             model.SecuritySchemeKind(raw.Type),
			Description:      raw.Description,
			APIKeyLocation:   raw.In,
			APIKeyName:       raw.Name,
			HTTPScheme:       raw.Scheme,
			BearerFormat:     raw.BearerFormat,
			OpenIDConnectURL: raw.OpenIDConnectURL,
		}
		flowNames := []string{"implicit", "password", "clientCredentials", "authorizationCode"}
		for _, fn := range flowNames {
			if f, ok := raw.Flows[fn]; ok {
				s.Flows = append(s.Flows, model.OAuthFlow{
					Name:             fn,
					AuthorizationURL: f.AuthorizationURL,
					TokenURL:         f.TokenURL,
					RefreshURL:       f.RefreshURL,
					Scopes:           f.Scopes,
				})
			}
		}
		out = append(out, s)
	}
	return out
}
