package telemetry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
)

func TestService_Resource(t *testing.T) {
	res, err := Service{Name: "pdv-backend", Version: "1.4.2", Environment: "production"}.resource()
	require.NoError(t, err)

	attrs := map[attribute.Key]string{}
	for _, kv := range res.Attributes() {
		attrs[kv.Key] = kv.Value.Emit()
	}
	assert.Equal(t, "pdv-backend", attrs["service.name"])
	assert.Equal(t, "1.4.2", attrs["service.version"])
	assert.Equal(t, "production", attrs["deployment.environment.name"])
}

func TestService_OmitsEmptyAttributes(t *testing.T) {
	attrs := Service{Name: "pdv-backend"}.attributes()
	require.Len(t, attrs, 1)
	assert.Equal(t, attribute.Key("service.name"), attrs[0].Key)
}
