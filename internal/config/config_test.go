package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfig_Validate(t *testing.T) {
	t.Run("cron secret is always required", func(t *testing.T) {
		c := &Config{}
		err := c.Validate()
		assert.ErrorContains(t, err, "CRON_SECRET")
	})

	t.Run("mock mode needs no provider settings", func(t *testing.T) {
		c := &Config{CronSecret: "s3cret"}
		assert.NoError(t, c.Validate())
	})

	t.Run("live mode requires provider url and key", func(t *testing.T) {
		c := &Config{CronSecret: "s3cret", SMSLiveMode: true}
		assert.ErrorContains(t, c.Validate(), "SMS_PROVIDER_URL")

		c.ProviderURL = "http://localhost:8081"
		assert.ErrorContains(t, c.Validate(), "SMS_PROVIDER_API_KEY")

		c.ProviderAPIKey = "key"
		assert.NoError(t, c.Validate())
	})
}

func TestSetGet(t *testing.T) {
	c := &Config{CronSecret: "s3cret", AppEnv: "test"}
	Set(c)
	assert.Same(t, c, Get())
}
