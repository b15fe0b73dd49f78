package eth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"

	"github.com/rebalancer-finance/keeper/src/utils/config"
	"github.com/rebalancer-finance/keeper/src/utils/logger"
)

func TestClientTestSuite(t *testing.T) {
	suite.Run(t, new(ClientTestSuite))
}

type ClientTestSuite struct {
	suite.Suite
}

func (s *ClientTestSuite) TestEmptyProvider() {
	_, err := GetEthClient(logger.NewSublogger("test"), &config.Eth{
		ProviderType: TransportHTTP,
	})
	assert.ErrorIs(s.T(), err, ErrProviderNotConfigured)
}

func (s *ClientTestSuite) TestUnknownProviderType() {
	_, err := GetEthClient(logger.NewSublogger("test"), &config.Eth{
		Provider:     "http://localhost:8545",
		ProviderType: "websocket",
	})
	assert.NotNil(s.T(), err)
	assert.Contains(s.T(), err.Error(), "not recognized")
}

func (s *ClientTestSuite) TestHttpProviderRequiresScheme() {
	_, err := GetEthClient(logger.NewSublogger("test"), &config.Eth{
		Provider:     "localhost:8545",
		ProviderType: TransportHTTP,
	})
	assert.NotNil(s.T(), err)
	assert.Contains(s.T(), err.Error(), "http(s) endpoint")
}

func (s *ClientTestSuite) TestHttpProviderDials() {
	// Dialing over http is lazy, no server has to listen yet
	client, err := GetEthClient(logger.NewSublogger("test"), &config.Eth{
		Provider:     "http://localhost:8545",
		ProviderType: TransportHTTP,
	})
	assert.Nil(s.T(), err)
	assert.NotNil(s.T(), client)
	client.Close()
}
