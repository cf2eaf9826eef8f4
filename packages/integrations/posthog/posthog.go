package posthog

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"time"

	"github.com/abdul-hamid-achik/inttest/packages/facade"
	"github.com/abdul-hamid-achik/inttest/packages/http"
	"github.com/abdul-hamid-achik/inttest/packages/integration"
)

const (
	Name            = "PostHog"
	DefaultEndpoint = "https://us.i.posthog.com"
	CapturePath     = "/capture/"

	defaultGroupType = "company"
)

// New returns the PostHog integration sending to endpoint.
func New(endpoint string, opts ...integration.IntegrationOption) *integration.Integration {
	i := integration.New(integration.Config{
		Name:     Name,
		Endpoint: endpoint,
		Timeout:  10 * time.Second,
		Retries:  3,
		Channels: []string{facade.ChannelServer, facade.ChannelClient},
		Options: map[string]integration.Option{
			"apiKey": {
				Type:        "string",
				Required:    true,
				Description: "Your PostHog project API key",
				Validate:    validateAPIKey,
			},
			"groupType": {
				Type:        "string",
				Default:     defaultGroupType,
				Description: "Group type used for group calls",
			},
			"host": {
				Type:        "string",
				Description: "Self-hosted PostHog URL",
				Validate:    validateHost,
			},
		},
		Requirements: []integration.Requirement{
			{Path: "settings.apiKey"},
			{Method: facade.TypeTrack, Path: "message.event"},
			{Method: facade.TypeGroup, Path: "message.groupId"},
			{Method: facade.TypeAlias, Path: "message.previousId"},
		},
	}, opts...)

	mappers := map[string]integration.MapFunc{
		facade.TypeIdentify: mapIdentify,
		facade.TypeTrack:    mapTrack,
		facade.TypePage:     mapPage,
		facade.TypeScreen:   mapScreen,
		facade.TypeGroup:    mapGroup,
		facade.TypeAlias:    mapAlias,
	}
	for typ, fn := range mappers {
		i.Map(typ, fn)
		i.Handle(typ, capture(i, fn))
	}
	return i
}

// capture maps msg with fn and posts the result to the capture endpoint.
func capture(i *integration.Integration, fn integration.MapFunc) integration.Handler {
	return func(ctx context.Context, msg facade.Message, settings integration.Settings) (*http.Response, error) {
		payload, err := fn(msg, settings)
		if err != nil {
			return nil, err
		}
		req := i.Request("POST", CapturePath).Type("json").Send(payload)
		if host, _ := settings["host"].(string); host != "" {
			req.URL = strings.TrimRight(host, "/") + CapturePath
		}
		return integration.CheckResponse(req.Do(ctx))
	}
}

func validateAPIKey(v any, _ integration.Settings) error {
	key, ok := v.(string)
	if !ok {
		return errors.New("must be a string")
	}
	if len(key) < 8 {
		return errors.New("is too short")
	}
	return nil
}

func validateHost(v any, _ integration.Settings) error {
	s, ok := v.(string)
	if !ok {
		return errors.New("must be a string")
	}
	u, err := url.Parse(s)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return errors.New("must be an absolute URL")
	}
	return nil
}
