package contracts

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"
)

func TestTransferDataEncodesSelectorAndArgs(t *testing.T) {
	token := &Token{}
	to := common.HexToAddress("0x00000000000000000000000000000000000001")
	data, err := token.TransferData(to, big.NewInt(1))
	require.NoError(t, err)
	require.True(t, len(data) >= 4, "packed call data should include at least a 4-byte selector")

	method, err := erc20Parsed.MethodById(data[:4])
	require.NoError(t, err)
	require.Equal(t, "transfer", method.Name)
}

func TestCreateNFTDataEncodesTokenURI(t *testing.T) {
	nft := &NFT{}
	data, err := nft.CreateNFTData("ipfs://example")
	require.NoError(t, err)

	method, err := erc721Parsed.MethodById(data[:4])
	require.NoError(t, err)
	require.Equal(t, "transact", method.Name)
}
