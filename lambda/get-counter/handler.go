package main

import (
	"context"

	"github.com/aws/aws-lambda-go/events"
	json "github.com/goccy/go-json"
	"github.com/google/wire"
	"github.com/rs/zerolog/log"

	tally "github.com/tallylabs/tally"
	"github.com/tallylabs/tally/counter"
	"github.com/tallylabs/tally/stores/dynamo"
)

type GatewayHandler = func(ctx context.Context, event events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error)

func createHandler(loader *tally.EntityLoader[counter.Counter]) GatewayHandler {
	return func(ctx context.Context, event events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
		key := event.PathParameters["key"]
		if key == "" {
			return events.APIGatewayV2HTTPResponse{
				StatusCode: 400,
			}, nil
		}

		id := tally.AggregateId{Type: counter.EntityType, Key: key}

		entity, err := loader.Load(ctx, id)
		if err != nil {
			log.Error().Err(err).Str("counter", key).Msg("failed to load counter")
			return events.APIGatewayV2HTTPResponse{
				StatusCode: 500,
			}, nil
		}

		if !entity.Initialized() {
			return events.APIGatewayV2HTTPResponse{
				StatusCode: 404,
			}, nil
		}

		body, err := json.Marshal(map[string]any{
			"count":     entity.State.Count,
			"authority": entity.State.Authority,
			"$revision": entity.Revision,
		})
		if err != nil {
			return events.APIGatewayV2HTTPResponse{
				StatusCode: 500,
			}, nil
		}

		return events.APIGatewayV2HTTPResponse{
			StatusCode: 200,
			Headers:    map[string]string{"Content-Type": "application/json"},
			Body:       string(body),
		}, nil
	}
}

var Live = wire.NewSet(createHandler, counter.Loader, dynamo.Live)
