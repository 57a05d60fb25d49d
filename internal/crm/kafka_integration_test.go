//go:build integration

package crm_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go/modules/redpanda"
	"github.com/twmb/franz-go/pkg/kgo"

	"dojohub/internal/crm"
	"dojohub/internal/user"
	"dojohub/pkg/domain"
)

func TestKafkaSinkDeliversEvents(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()

	container, err := redpanda.Run(ctx, "redpandadata/redpanda:v24.1.2")
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	broker, err := container.KafkaSeedBroker(ctx)
	require.NoError(t, err)

	const topic = "dojohub.crm-sync"
	sink, err := crm.NewKafkaSink(ctx, []string{broker}, topic)
	require.NoError(t, err)
	t.Cleanup(sink.Close)

	champion := &user.User{
		ID:    domain.NewUserID(),
		Email: "champ@example.com",
		Name:  "Grace Hopper",
	}
	event := crm.NewSyncEvent(champion, "https://zen.coderdojo.com")
	require.NoError(t, sink.Deliver(ctx, event))

	consumer, err := kgo.NewClient(
		kgo.SeedBrokers(broker),
		kgo.ConsumeTopics(topic),
	)
	require.NoError(t, err)
	t.Cleanup(consumer.Close)

	fetchCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	fetches := consumer.PollFetches(fetchCtx)
	require.NoError(t, fetches.Err())

	records := fetches.Records()
	require.Len(t, records, 1)
	require.Equal(t, champion.ID.String(), string(records[0].Key))

	var got crm.SyncEvent
	require.NoError(t, json.Unmarshal(records[0].Value, &got))
	require.Equal(t, champion.ID, got.UserID)
	require.Equal(t, "Grace Hopper", got.Account.Name)
	require.Equal(t, "<n/a>", got.Lead.Company)
}
