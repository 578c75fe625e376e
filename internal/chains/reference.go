package chains

import "strings"

// DefaultTPS is reported for chains that were never researched.
const DefaultTPS = 100

// TPS is a throughput lookup result. Known with Value 0 means the chain was
// researched and no figure is published, which differs from an unknown id.
type TPS struct {
	Value float64
	Known bool
}

// OrDefault collapses an unknown lookup to DefaultTPS.
func (t TPS) OrDefault() float64 {
	if !t.Known {
		return DefaultTPS
	}
	return t.Value
}

// Endpoints is an RPC lookup result. Unknown ids carry empty strings.
type Endpoints struct {
	RPC   string
	WSS   string
	Known bool
}

func LookupTPS(geckoID string) TPS {
	v, ok := tpsByGeckoID[normalizeID(geckoID)]
	return TPS{Value: v, Known: ok}
}

func LookupEndpoints(geckoID string) Endpoints {
	pair, ok := endpointsByGeckoID[normalizeID(geckoID)]
	if !ok {
		return Endpoints{}
	}
	return Endpoints{
		RPC:   strings.TrimSpace(pair[0]),
		WSS:   strings.TrimSpace(pair[1]),
		Known: true,
	}
}

func normalizeID(id string) string {
	return strings.ToLower(strings.TrimSpace(id))
}

var tpsByGeckoID = map[string]float64{
	"ethereum":                15,
	"solana":                  65000,
	"bitcoin":                 7,
	"binancecoin":             160,
	"tron":                    144,
	"base":                    115,
	"arbitrum":                21,
	"hyperliquid":             20000,
	"sui":                     27.6,
	"avalanche-2":             4500,
	"polygon-ecosystem-token": 7000,
	"aptos":                   160000,
	"berachain-bera":          0,
	"sei-network":             61.2,
	"sonic-3":                 0,
	"bsquared-network":        0,
	"coredaoorg":              0,
	"crypto-com-chain":        0,
	"hemis":                   0,
	"optimism":                13,
	"taiko":                   0,
	"bitlayer-bitvm":          0,
	"rootstock":               0,
	"gnosis":                  0,
	"pulsechain":              0,
	"cardano":                 250,
	"dydx-chain":              0,
	"mantle":                  0,
	"eos":                     0,
	"katana-inu":              0,
	"flare-networks":          0,
	"the-open-network":        0,
	"kava":                    0,
	"near":                    100000,
	"bob":                     0,
	"hydradx":                 0,
	"plume":                   0,
	"goat":                    0,
	"blockstack":              0,
	"mixin":                   0,
	"blast":                   0,
	"scroll":                  0,
	"ailayer-token":           0,
	"starknet":                0,
	"stellar":                 3000,
	"flow":                    0,
	"morph":                   0,
	"hedera-hashgraph":        10000,
	"movement":                0,
	"thorchain":               1000,
}

var endpointsByGeckoID = map[string][2]string{
	"ethereum":                {"https://ethereum-rpc.publicnode.com", "wss://ethereum-rpc.publicnode.com"},
	"solana":                  {"https://api.mainnet-beta.solana.com", "wss://api.mainnet-beta.solana.com"},
	"bitcoin":                 {"https://bitcoin-rpc.publicnode.com", ""},
	"binancecoin":             {"https://bsc-dataseed.binance.org/", "wss://bsc-ws-node.nariox.org:443"},
	"tron":                    {"https://api.trongrid.io", "wss://api.trongrid.io/wss"},
	"base":                    {"https://mainnet.base.org", "wss://mainnet.base.org/ws"},
	"arbitrum":                {"https://arb1.arbitrum.io/rpc", "wss://arb1.arbitrum.io/ws"},
	"hyperliquid":             {"https://rpc.hyperliquid.com", "wss://rpc.hyperliquid.com/ws"},
	"sui":                     {"https://fullnode.mainnet.sui.io", "wss://fullnode.mainnet.sui.io/ws"},
	"avalanche-2":             {"https://api.avax.network/ext/bc/C/rpc", "wss://api.avax.network/ext/bc/C/ws"},
	"polygon-ecosystem-token": {"https://polygon-rpc.com", "wss://polygon-rpc.com/ws"},
	"aptos":                   {"https://fullnode.mainnet.aptoslabs.com", "wss://fullnode.mainnet.aptoslabs.com/ws"},
	"berachain-bera":          {"https://berachain-rpc.publicnode.com", "wss://berachain-rpc.publicnode.com"},
	"sei-network":             {"https://sei-api.mainnet.sei.io", "wss://sei-ws.mainnet.sei.io"},
	"sonic-3":                 {"https://sonic-rpc.publicnode.com:443", "wss://sonic-rpc.publicnode.com:443"},
	"bsquared-network":        {"https://mainnet.b2-rpc.com", ""},
	"coredaoorg":              {"https://rpc.ankr.com/core", "wss://core.drpc.org"},
	"crypto-com-chain":        {"https://cronos-evm-rpc.publicnode.com", "wss://cronos.drpc.org"},
	"hemis":                   {"", ""},
	"optimism":                {"https://mainnet.optimism.io", "wss://mainnet.optimism.io/ws"},
	"taiko":                   {"", ""},
	"bitlayer-bitvm":          {"", ""},
	"rootstock":               {"https://public-node.rsk.co", "wss://public-node.rsk.co/ws"},
	"gnosis":                  {"https://rpc.gnosischain.com", "wss://rpc.gnosischain.com/wss"},
	"pulsechain":              {"", ""},
	"cardano":                 {"https://cardano-mainnet.blockfrost.io/api/v0", ""},
	"dydx-chain":              {"https://dydx-rpc.publicnode.com:443", "wss://dydx-rpc.publicnode.com:443/websocket"},
	"mantle":                  {"https://mantle-rpc.publicnode.com", "wss://mantle-rpc.publicnode.com"},
	"eos":                     {"https://eos.greymass.com", "wss://eos.greymass.com/ws"},
	"katana-inu":              {"", ""},
	"flare-networks":          {"", ""},
	"the-open-network":        {"", ""},
	"kava":                    {"https://evm.kava.io", "wss://evm.kava.io/ws"},
	"near":                    {"https://rpc.mainnet.near.org", "wss://rpc.mainnet.near.org/ws"},
	"bob":                     {"", ""},
	"hydradx":                 {"", ""},
	"plume":                   {"", ""},
	"goat":                    {"", ""},
	"blockstack":              {"https://stacks-node-api.mainnet.stacks.co", "wss://stacks-node-api.mainnet.stacks.co/ws"},
	"mixin":                   {"", ""},
	"blast":                   {"", ""},
	"scroll":                  {"https://scroll.io/rpc", "wss://scroll.io/ws"},
	"ailayer-token":           {"", ""},
	"starknet":                {"https://starknet.io/rpc", "wss://starknet.io/ws"},
	"stellar":                 {"https://horizon.stellar.org", "wss://horizon.stellar.org"},
	"flow":                    {"https://access.mainnet.nodes.onflow.org", "wss://access.mainnet.nodes.onflow.org"},
	"morph":                   {"", ""},
	"hedera-hashgraph":        {"https://hedera.api.onflow.org", "wss://hedera.api.onflow.org/ws"},
	"movement":                {"", ""},
	"thorchain":               {"https://thorchain.net/rpc", "wss://thorchain.net/ws"},
}
