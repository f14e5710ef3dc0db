// Package ledger wraps the deployed Certification contract: one write
// (recordCertificate) and one read (isVerified), keyed by the certificate
// fingerprint.
package ledger

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"

	"certledger/internal/certificate"
)

const certificationABI = `[
	{
		"type": "function",
		"name": "generateCertificate",
		"stateMutability": "nonpayable",
		"inputs": [
			{"name": "_certificateId", "type": "string"},
			{"name": "_code", "type": "string"},
			{"name": "_candidateName", "type": "string"},
			{"name": "_majorName", "type": "string"},
			{"name": "_organizationName", "type": "string"},
			{"name": "_ipfsHash", "type": "string"}
		],
		"outputs": []
	},
	{
		"type": "function",
		"name": "isVerified",
		"stateMutability": "view",
		"inputs": [{"name": "_certificateId", "type": "string"}],
		"outputs": [{"name": "", "type": "bool"}]
	}
]`

// Receipt is the confirmation proof returned to the caller after a ledger
// write is mined.
type Receipt struct {
	TransactionHash string `json:"transactionHash"`
	BlockHash       string `json:"blockHash"`
	BlockNumber     uint64 `json:"blockNumber"`
	GasUsed         uint64 `json:"gasUsed"`
	Status          uint64 `json:"status"`
}

type Client struct {
	eth            *ethclient.Client
	contract       *bind.BoundContract
	address        common.Address
	opts           *bind.TransactOpts
	confirmTimeout time.Duration

	// Serializes transactions so pending nonces from concurrent requests do
	// not collide; reads are not guarded.
	txMu sync.Mutex
}

// Dial connects to the node, loads the contract address from the deployment
// descriptor (a JSON object keyed "Certification") and prepares a signing
// transactor. confirmTimeout bounds the wait for transaction confirmation.
func Dial(ctx context.Context, nodeURL, deploymentPath, privateKeyHex string, confirmTimeout time.Duration) (*Client, error) {
	raw, err := os.ReadFile(deploymentPath)
	if err != nil {
		return nil, fmt.Errorf("read deployment descriptor: %w", err)
	}
	var deployment map[string]string
	if err := json.Unmarshal(raw, &deployment); err != nil {
		return nil, fmt.Errorf("parse deployment descriptor: %w", err)
	}
	addrHex, ok := deployment["Certification"]
	if !ok || addrHex == "" {
		return nil, fmt.Errorf("deployment descriptor %s has no Certification address", deploymentPath)
	}
	address := common.HexToAddress(addrHex)

	eth, err := ethclient.DialContext(ctx, nodeURL)
	if err != nil {
		return nil, fmt.Errorf("dial ledger node %s: %w", nodeURL, err)
	}

	parsed, err := abi.JSON(strings.NewReader(certificationABI))
	if err != nil {
		return nil, fmt.Errorf("parse contract ABI: %w", err)
	}

	key, err := crypto.HexToECDSA(strings.TrimPrefix(privateKeyHex, "0x"))
	if err != nil {
		return nil, fmt.Errorf("parse ledger signing key: %w", err)
	}
	chainID, err := eth.ChainID(ctx)
	if err != nil {
		return nil, fmt.Errorf("query chain id: %w", err)
	}
	opts, err := bind.NewKeyedTransactorWithChainID(key, chainID)
	if err != nil {
		return nil, fmt.Errorf("build transactor: %w", err)
	}

	return &Client{
		eth:            eth,
		contract:       bind.NewBoundContract(address, parsed, eth, eth, eth),
		address:        address,
		opts:           opts,
		confirmTimeout: confirmTimeout,
	}, nil
}

// ContractAddress returns the hex address of the deployed contract.
func (c *Client) ContractAddress() string {
	return c.address.Hex()
}

// RecordCertificate submits the certificate record transaction and blocks
// until it is mined or the confirmation timeout elapses. A mined transaction
// with a failed status is reported as an error, not a receipt.
func (c *Client) RecordCertificate(ctx context.Context, id string, f certificate.Fields, contentPointer string) (*Receipt, error) {
	c.txMu.Lock()
	tx, err := c.contract.Transact(c.opts, "generateCertificate",
		id, f.Code, f.CandidateName, f.MajorName, f.OrganizationName, contentPointer)
	c.txMu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("submit certificate transaction: %w", err)
	}

	waitCtx, cancel := context.WithTimeout(ctx, c.confirmTimeout)
	defer cancel()
	receipt, err := bind.WaitMined(waitCtx, c.eth, tx)
	if err != nil {
		return nil, fmt.Errorf("confirm transaction %s: %w", tx.Hash().Hex(), err)
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return nil, fmt.Errorf("transaction %s reverted", tx.Hash().Hex())
	}

	return &Receipt{
		TransactionHash: receipt.TxHash.Hex(),
		BlockHash:       receipt.BlockHash.Hex(),
		BlockNumber:     receipt.BlockNumber.Uint64(),
		GasUsed:         receipt.GasUsed,
		Status:          receipt.Status,
	}, nil
}

// IsVerified reports whether a certificate with the given fingerprint exists
// on the ledger. Read-only eth_call, no gas spent.
func (c *Client) IsVerified(ctx context.Context, id string) (bool, error) {
	var out []interface{}
	err := c.contract.Call(&bind.CallOpts{Context: ctx}, &out, "isVerified", id)
	if err != nil {
		return false, fmt.Errorf("query certificate %s: %w", id, err)
	}
	if len(out) != 1 {
		return false, fmt.Errorf("unexpected isVerified output arity %d", len(out))
	}
	verified, ok := out[0].(bool)
	if !ok {
		return false, fmt.Errorf("unexpected isVerified output type %T", out[0])
	}
	return verified, nil
}

func (c *Client) Close() {
	c.eth.Close()
}
