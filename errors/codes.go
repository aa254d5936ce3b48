package errors

// Code is a native Snpe_ErrorCode_t value.
type Code int32

const CodeSuccess Code = 0

// Container error codes from DlSystem/DlError.h.
const (
	CodeModelParsingFailed     Code = 200
	CodeUnknownLayerCode       Code = 201
	CodeMissingLayerParam      Code = 202
	CodeLayerParamNotSupported Code = 203
	CodeLayerParamInvalid      Code = 204
	CodeTensorDataMissing      Code = 205
	CodeModelLoadFailed        Code = 206
	CodeMissingRecords         Code = 207
	CodeInvalidRecord          Code = 208
	CodeWriteFailure           Code = 209
	CodeReadFailure            Code = 210
	CodeBadContainer           Code = 211
	CodeBadDnnFormatVersion    Code = 212
	CodeUnknownAxisAnnotation  Code = 213
	CodeUnknownShuffleType     Code = 214
	CodeTempFileFailure        Code = 215
)

var codeKinds = map[Code]Kind{
	CodeModelParsingFailed:     KindModelParsingFailed,
	CodeUnknownLayerCode:       KindUnknownLayerCode,
	CodeMissingLayerParam:      KindMissingLayerParam,
	CodeLayerParamNotSupported: KindLayerParamNotSupported,
	CodeLayerParamInvalid:      KindLayerParamInvalid,
	CodeTensorDataMissing:      KindTensorDataMissing,
	CodeModelLoadFailed:        KindModelLoadFailed,
	CodeMissingRecords:         KindMissingRecords,
	CodeInvalidRecord:          KindInvalidRecord,
	CodeWriteFailure:           KindWriteFailure,
	CodeReadFailure:            KindReadFailure,
	CodeBadContainer:           KindBadContainer,
	CodeBadDnnFormatVersion:    KindBadDnnFormatVersion,
	CodeUnknownAxisAnnotation:  KindUnknownAxisAnnotation,
	CodeUnknownShuffleType:     KindUnknownShuffleType,
	CodeTempFileFailure:        KindTempFileFailure,
}

// KindOf maps a native code to its kind. Unlisted codes, including
// CodeSuccess, map to KindUnknown.
func KindOf(code Code) Kind {
	if k, ok := codeKinds[code]; ok {
		return k
	}
	return KindUnknown
}
