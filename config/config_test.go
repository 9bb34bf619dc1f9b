package config

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lintim.dev/ptsim/delay"
	"lintim.dev/ptsim/simerrors"
)

const validYAML = `
stop_at: 3600
delay_strategy: 1
debug_level: 2
offline_passenger_share: 0.3
random_seed: 42
sp_algo: 0
distribution_method: 0
stranded_penalty: 600
data_folder_location: ./testdata
`

func TestDecodeValidConfig(t *testing.T) {
	cfg, err := Decode(strings.NewReader(validYAML))
	require.NoError(t, err)
	assert.Equal(t, 3600, cfg.StopAt)
	assert.Equal(t, WaitTimeCode, cfg.DelayStrategy)
	assert.Equal(t, 0.3, cfg.OfflinePassengerShare)
	assert.Equal(t, "./testdata", cfg.DataFolderLocation)
}

func TestDecodeRejectsUnknownKey(t *testing.T) {
	input := validYAML + "\nbogus_key: 1\n"
	_, err := Decode(strings.NewReader(input))
	require.Error(t, err)
	assert.True(t, simerrors.Is(err, simerrors.UnknownConfig))
}

func TestValidateRejectsOutOfRangeShare(t *testing.T) {
	input := strings.Replace(validYAML, "offline_passenger_share: 0.3", "offline_passenger_share: 1.5", 1)
	_, err := Decode(strings.NewReader(input))
	require.Error(t, err)
	assert.True(t, simerrors.Is(err, simerrors.UnknownConfig))
}

func TestValidateRejectsOutOfRangeStrategy(t *testing.T) {
	input := strings.Replace(validYAML, "delay_strategy: 1", "delay_strategy: 9", 1)
	_, err := Decode(strings.NewReader(input))
	require.Error(t, err)
}

func TestDelayManagerStrategyMapping(t *testing.T) {
	cfg, err := Decode(strings.NewReader(validYAML))
	require.NoError(t, err)
	strategy := cfg.DelayManagerStrategy()
	assert.Equal(t, delay.WaitTime, strategy.Kind)
	assert.Equal(t, WaitTimeThreshold, strategy.Threshold)
}
