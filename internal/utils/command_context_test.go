package utils_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/repoman/internal/utils"
)

func TestCommandContextAccessorConfigurationFilePath(testInstance *testing.T) {
	accessor := utils.NewCommandContextAccessor()

	_, recorded := accessor.ConfigurationFilePath(context.Background())
	require.False(testInstance, recorded)

	embeddedOnly := accessor.WithConfigurationFilePath(context.Background(), "")
	_, recorded = accessor.ConfigurationFilePath(embeddedOnly)
	require.False(testInstance, recorded)

	withFile := accessor.WithConfigurationFilePath(nil, "/etc/repoman/config.yaml")
	configurationFilePath, recorded := accessor.ConfigurationFilePath(withFile)
	require.True(testInstance, recorded)
	require.Equal(testInstance, "/etc/repoman/config.yaml", configurationFilePath)
}
