package i18n

// Key names a message in the catalogs. Nested YAML maps flatten to dotted keys.
type Key string

const (
	CalcRequired          Key = "calc.validationRequired"
	CalcPositive          Key = "calc.validationPositive"
	CalcNonNegative       Key = "calc.validationNonNegative"
	CalcInteger           Key = "calc.validationInteger"
	CalcMinOne            Key = "calc.validationMinOne"
	CalcNothingToSave     Key = "calc.nothingToSave"
	CalcSoffitLabel       Key = "calc.soffitLabel"
	CalcUnknownCalculator Key = "calc.unknownCalculator"
	CalcEmptyBatch        Key = "calc.emptyBatch"
	CalcOutOfRange        Key = "calc.outOfRange"

	AuthInvalidEmail       Key = "auth.errorInvalidEmail"
	AuthPasswordLength     Key = "auth.errorPasswordLength"
	AuthUserType           Key = "auth.errorUserType"
	AuthInstitution        Key = "auth.errorInstitution"
	AuthCompany            Key = "auth.errorCompany"
	AuthInvalidCredentials Key = "auth.errorInvalidCredentials"
	AuthEmailTaken         Key = "auth.errorEmailTaken"
	AuthProfileSetupFailed Key = "auth.errorProfileSetupFailed"
	AuthRegistered         Key = "auth.successRegistered"
	AuthLoggedIn           Key = "auth.successLoggedIn"
	AuthLoggedOut          Key = "auth.successLoggedOut"

	ProfilePhoneInvalid       Key = "profile.phoneInvalid"
	ProfileInstitutionMissing Key = "profile.institutionRequired"
	ProfileCompanyMissing     Key = "profile.companyRequired"
	ProfileSaveSuccess        Key = "profile.saveSuccess"
	ProfileSaveError          Key = "profile.saveError"
	ProfileSchemaCache        Key = "profile.schemaCacheError"
	ProfileNeedSignIn         Key = "profile.needSignInAgain"

	CommonSignInAgain       Key = "common.errorSignInAgain"
	CommonMigrationRequired Key = "common.dbMigrationRequired"
	CommonSaveFailed        Key = "common.saveFailed"
	CommonTryAgain          Key = "common.errorTryAgain"

	HistoryLoadFailed Key = "history.loadFailed"

	ModalValidationTitle    Key = "modal.validationTitle"
	ModalValidationMsg      Key = "modal.validationMsg"
	ModalSaveSuccessTitle   Key = "modal.saveSuccessTitle"
	ModalSaveSuccessMsg     Key = "modal.saveSuccessMsg"
	ModalSaveFailTitle      Key = "modal.saveFailTitle"
	ModalSaveFailMsg        Key = "modal.saveFailMsg"
	ModalLoadFailTitle      Key = "modal.loadFailTitle"
	ModalLoadFailMsg        Key = "modal.loadFailMsg"
	ModalDeleteSuccessTitle Key = "modal.deleteSuccessTitle"
	ModalDeleteSuccessMsg   Key = "modal.deleteSuccessMsg"
	ModalDeleteFailTitle    Key = "modal.deleteFailTitle"
	ModalDeleteFailMsg      Key = "modal.deleteFailMsg"

	InstitutionLoadFailed Key = "institution.loadFailed"

	ReportTitle   Key = "report.title"
	ReportProject Key = "report.project"
	ReportAuthor  Key = "report.author"
	ReportDate    Key = "report.date"
	ReportInputs  Key = "report.inputs"
	ReportOutputs Key = "report.outputs"
	ReportHistory Key = "report.history"
)

// HistoryOutput returns the label key for a saved output such as "steel_kg".
func HistoryOutput(name string) Key {
	return Key("history.outputs." + name)
}

// HistoryType returns the label key for a calculation type.
func HistoryType(name string) Key {
	return Key("history.types." + name)
}

// InstitutionCategory returns the label key for UA, POLYTECHNIC or COMMUNITY_COLLEGE.
func InstitutionCategory(code string) Key {
	return Key("institution.categories." + code)
}
