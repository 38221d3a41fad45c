package ethereum

import (
	"bytes"
	"errors"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/rpc"
)

const executionReverted = "execution reverted"

// revertReason extracts the revert reason from an eth_call error.
// The second return value is false when err is not a revert.
func revertReason(err error) (string, bool) {
	var dataErr rpc.DataError
	if errors.As(err, &dataErr) {
		if data, ok := revertData(dataErr.ErrorData()); ok {
			return decodeRevert(data), true
		}
	}

	msg := err.Error()
	idx := strings.Index(msg, executionReverted)
	if idx < 0 {
		return "", false
	}

	reason := strings.TrimSpace(msg[idx+len(executionReverted):])
	reason = strings.TrimSpace(strings.TrimPrefix(reason, ":"))
	if reason == "" {
		reason = executionReverted
	}
	return reason, true
}

func revertData(raw interface{}) ([]byte, bool) {
	switch v := raw.(type) {
	case string:
		data, err := hexutil.Decode(v)
		if err != nil {
			return nil, false
		}
		return data, true
	case hexutil.Bytes:
		return v, true
	case []byte:
		return v, true
	default:
		return nil, false
	}
}

// decodeRevert renders revert data as Error(string), Panic(uint256), a declared
// custom error, or raw hex, in that order.
func decodeRevert(data []byte) string {
	if len(data) == 0 {
		return executionReverted
	}

	if reason, err := abi.UnpackRevert(data); err == nil {
		return reason
	}

	if len(data) >= 4 {
		for _, customErr := range cardABI.Errors {
			if !bytes.Equal(customErr.ID[:4], data[:4]) {
				continue
			}
			values, err := customErr.Inputs.Unpack(data[4:])
			if err != nil || len(values) == 0 {
				return customErr.Name
			}
			args := make([]string, len(values))
			for i, v := range values {
				args[i] = stringifyArg(v)
			}
			return customErr.Name + "(" + strings.Join(args, ", ") + ")"
		}
	}

	return hexutil.Encode(data)
}
