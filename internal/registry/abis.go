package registry

// ABI fragments used by calldata encoders.
const (
	// PaymentsExtendedABI is the payments surface of the swap router: unwrapping the
	// wrapped-native token, sweeping leftovers, pulling tokens and wrapping native value.
	// Overloads share a name, so callers resolve methods by signature.
	PaymentsExtendedABI = `[
		{"name":"unwrapWRBTC","type":"function","stateMutability":"payable","inputs":[{"name":"amountMinimum","type":"uint256"}],"outputs":[]},
		{"name":"unwrapWRBTC","type":"function","stateMutability":"payable","inputs":[{"name":"amountMinimum","type":"uint256"},{"name":"recipient","type":"address"}],"outputs":[]},
		{"name":"unwrapWRBTCWithFee","type":"function","stateMutability":"payable","inputs":[{"name":"amountMinimum","type":"uint256"},{"name":"feeBips","type":"uint256"},{"name":"feeRecipient","type":"address"}],"outputs":[]},
		{"name":"unwrapWRBTCWithFee","type":"function","stateMutability":"payable","inputs":[{"name":"amountMinimum","type":"uint256"},{"name":"recipient","type":"address"},{"name":"feeBips","type":"uint256"},{"name":"feeRecipient","type":"address"}],"outputs":[]},
		{"name":"sweepToken","type":"function","stateMutability":"payable","inputs":[{"name":"token","type":"address"},{"name":"amountMinimum","type":"uint256"}],"outputs":[]},
		{"name":"sweepToken","type":"function","stateMutability":"payable","inputs":[{"name":"token","type":"address"},{"name":"amountMinimum","type":"uint256"},{"name":"recipient","type":"address"}],"outputs":[]},
		{"name":"sweepTokenWithFee","type":"function","stateMutability":"payable","inputs":[{"name":"token","type":"address"},{"name":"amountMinimum","type":"uint256"},{"name":"feeBips","type":"uint256"},{"name":"feeRecipient","type":"address"}],"outputs":[]},
		{"name":"sweepTokenWithFee","type":"function","stateMutability":"payable","inputs":[{"name":"token","type":"address"},{"name":"amountMinimum","type":"uint256"},{"name":"recipient","type":"address"},{"name":"feeBips","type":"uint256"},{"name":"feeRecipient","type":"address"}],"outputs":[]},
		{"name":"pull","type":"function","stateMutability":"payable","inputs":[{"name":"token","type":"address"},{"name":"value","type":"uint256"}],"outputs":[]},
		{"name":"wrapRBTC","type":"function","stateMutability":"payable","inputs":[{"name":"value","type":"uint256"}],"outputs":[]}
	]`
)
