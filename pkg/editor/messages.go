package editor

// Error codes carried in error envelopes.
const (
	CodeSaveError       = "SAVE_ERROR"
	CodePreviewError    = "PREVIEW_ERROR"
	CodeLoadError       = "LOAD_ERROR"
	CodeValidationError = "VALIDATION_ERROR"
	CodeInvalidJSON     = "INVALID_JSON"
	CodeImportError     = "IMPORT_ERROR"
	CodeExportError     = "EXPORT_ERROR"
	CodeNotFound        = "NOT_FOUND"
)

// Envelope messages.
const (
	MsgDefinitionLoaded = "API 정의를 성공적으로 조회했습니다."
	MsgDefinitionSaved  = "API 정의가 저장되고 엔드포인트가 다시 로드되었습니다."
	MsgPreviewGenerated = "미리보기 데이터를 성공적으로 생성했습니다."
	MsgNoResponse       = "정의된 응답이 없습니다."
	MsgTemplatesLoaded  = "상태 코드 템플릿을 성공적으로 조회했습니다."
	MsgImported         = "OpenAPI 문서를 성공적으로 가져왔습니다."
	MsgRequestsLoaded   = "요청 기록을 성공적으로 조회했습니다."
	MsgRequestsCleared  = "요청 기록을 삭제했습니다."
	MsgHealthy          = "서버가 정상적으로 동작 중입니다."

	MsgSaveFailed       = "API 정의 저장에 실패했습니다: "
	MsgPreviewFailed    = "미리보기 생성에 실패했습니다: "
	MsgLoadFailed       = "API 정의 조회에 실패했습니다."
	MsgValidationFailed = "API 정의가 유효하지 않습니다."
	MsgInvalidJSON      = "잘못된 JSON 형식입니다."
	MsgImportFailed     = "OpenAPI 문서를 가져오지 못했습니다: "
	MsgExportFailed     = "OpenAPI 문서를 생성하지 못했습니다."
	MsgNotFound         = "요청한 API를 찾을 수 없습니다."
	MsgNoRequestLog     = "요청 기록을 사용할 수 없습니다."
)
