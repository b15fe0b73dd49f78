package eth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rebalancer-finance/keeper/src/utils/config"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"
)

const (
	TransportIPC  = "ipc"
	TransportHTTP = "http"
)

type (
	RawABIResponse struct {
		Status  *string `json:"status"`
		Message *string `json:"message"`
		Result  *string `json:"result"`
	}
)

var ErrProviderNotConfigured = errors.New("eth provider endpoint not configured")

// GetEthClient dials the configured provider.
// Missing endpoint or an unknown transport kind is a configuration error,
// there is no retry here. The caller aborts startup and the process must be restarted.
func GetEthClient(log *logrus.Entry, ethConfig *config.Eth) (client *ethclient.Client, err error) {
	if ethConfig.Provider == "" {
		log.Error("Eth provider endpoint is empty")
		return nil, ErrProviderNotConfigured
	}

	switch ethConfig.ProviderType {
	case TransportIPC:
		// Endpoint is a filesystem socket path
		client, err = ethclient.Dial(ethConfig.Provider)
	case TransportHTTP:
		if !strings.HasPrefix(ethConfig.Provider, "http://") && !strings.HasPrefix(ethConfig.Provider, "https://") {
			err = fmt.Errorf("http transport requires a http(s) endpoint, got %s", ethConfig.Provider)
		} else {
			client, err = ethclient.Dial(ethConfig.Provider)
		}
	default:
		err = fmt.Errorf("eth provider type not recognized: %s", ethConfig.ProviderType)
	}

	if err != nil {
		log.WithError(err).Error("Cannot get ETH client")
		return nil, err
	}

	return
}

func GetContractRawABI(address string, apiKey string, apiUrl string) (rawABIResponse *RawABIResponse, err error) {
	client := resty.New()
	rawABIResponse = &RawABIResponse{}
	resp, err := client.R().
		SetQueryParams(map[string]string{
			"module":  "contract",
			"action":  "getabi",
			"address": address,
			"apikey":  apiKey,
		}).
		SetResult(rawABIResponse).
		Get(apiUrl)

	if err != nil {
		return nil, err
	}

	if !resp.IsSuccess() {
		return nil, fmt.Errorf("get contract raw abi was not successful: %s", resp)
	}

	if rawABIResponse.Status == nil || *rawABIResponse.Status != "1" {
		return nil, fmt.Errorf("get contract raw abi failed: %s", resp)
	}

	return rawABIResponse, nil
}

func GetContractABI(contractAddress, apiKey, apiUrl string) (*abi.ABI, error) {
	rawABIResponse, err := GetContractRawABI(contractAddress, apiKey, apiUrl)
	if err != nil {
		return nil, err
	}

	contractABI, err := abi.JSON(strings.NewReader(*rawABIResponse.Result))
	if err != nil {
		return nil, err
	}
	return &contractABI, nil
}

// HeadReader reads the current chain height with a bounded timeout
type HeadReader struct {
	client  *ethclient.Client
	timeout config.Eth
}

func NewHeadReader(client *ethclient.Client, ethConfig config.Eth) *HeadReader {
	return &HeadReader{client: client, timeout: ethConfig}
}

func (self *HeadReader) Height(ctx context.Context) (height uint64, err error) {
	ctx, cancel := context.WithTimeout(ctx, self.timeout.RequestTimeout)
	defer cancel()

	header, err := self.client.HeaderByNumber(ctx, nil)
	if err != nil {
		return
	}

	height = header.Number.Uint64()
	return
}
