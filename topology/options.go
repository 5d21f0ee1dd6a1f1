package topology

import (
	"encoding/binary"
	"fmt"
	"slices"

	"github.com/ethereum/go-ethereum/common/hexutil"
)

const (
	optionsType3     uint16 = 3
	executorWorkerID uint8  = 1
)

// EncodedOption is the type-3 options payload enforced for one message type.
type EncodedOption struct {
	MsgType uint16        `json:"msgType" yaml:"msg_type"`
	Options hexutil.Bytes `json:"options" yaml:"options"`
}

// EncodeOptions groups opts by message type and encodes each group in the type-3 executor options
// format. The result is sorted by message type.
func EncodeOptions(opts []EnforcedOption) ([]EncodedOption, error) {
	grouped := make(map[uint16][]EnforcedOption)
	for _, opt := range opts {
		if err := validateOption(opt); err != nil {
			return nil, fmt.Errorf("msg type %d: %w", opt.MsgType, err)
		}
		grouped[opt.MsgType] = append(grouped[opt.MsgType], opt)
	}

	msgTypes := make([]uint16, 0, len(grouped))
	for mt := range grouped {
		msgTypes = append(msgTypes, mt)
	}
	slices.Sort(msgTypes)

	out := make([]EncodedOption, 0, len(msgTypes))
	for _, mt := range msgTypes {
		buf := binary.BigEndian.AppendUint16(nil, optionsType3)
		for _, opt := range grouped[mt] {
			buf = appendExecutorOption(buf, opt)
		}
		out = append(out, EncodedOption{MsgType: mt, Options: buf})
	}

	return out, nil
}

func appendExecutorOption(buf []byte, opt EnforcedOption) []byte {
	var params []byte
	switch opt.OptionType {
	case OptionTypeLzReceive:
		params = appendUint128(params, opt.Gas)
		if opt.Value != 0 {
			params = appendUint128(params, opt.Value)
		}
	case OptionTypeCompose:
		params = binary.BigEndian.AppendUint16(params, opt.Index)
		params = appendUint128(params, opt.Gas)
		if opt.Value != 0 {
			params = appendUint128(params, opt.Value)
		}
	case OptionTypeOrdered:
	}

	buf = append(buf, executorWorkerID)
	// size covers the option type byte and its params
	buf = binary.BigEndian.AppendUint16(buf, uint16(len(params)+1))
	buf = append(buf, byte(opt.OptionType))

	return append(buf, params...)
}

// appendUint128 appends v as a big endian uint128.
func appendUint128(buf []byte, v uint64) []byte {
	buf = append(buf, make([]byte, 8)...)

	return binary.BigEndian.AppendUint64(buf, v)
}
