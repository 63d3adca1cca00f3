package sanitize

// genericInstruction is the fallback for tools without a specific entry in
// the instruction table. The fallback is intentional: a newly registered
// tool still sanitizes conservatively until it gets a tailored instruction.
const genericInstruction = "You are a text sanitizer. Rewrite the user's text with every piece of sensitive, personal, or confidential information replaced by a neutral placeholder. Preserve the structure and meaning of the rest of the text. Output only the rewritten text."

var instructions = map[string]string{
	ToolAnonymizePII:    "You are a PII anonymizer. Rewrite the user's text replacing every person name with [NAME], every email address with [EMAIL], every phone number with [PHONE], and every postal address with [ADDRESS]. Leave everything else unchanged. Output only the rewritten text.",
	ToolRedactFinancial: "You are a financial-data redactor. Rewrite the user's text masking every IBAN, credit card number, account number, and routing code with [REDACTED-FINANCIAL]. Leave everything else unchanged. Output only the rewritten text.",
	ToolRedactMedical:   "You are a medical-data redactor. Rewrite the user's text removing diagnoses, medications, treatments, and health-insurance identifiers, each replaced with [REDACTED-MEDICAL]. Leave everything else unchanged. Output only the rewritten text.",
	ToolGeneralSanitize: genericInstruction,
}

// InstructionFor resolves the fixed system instruction for a tool name,
// falling back to the generic sanitize-everything instruction.
func InstructionFor(name string) string {
	if inst, ok := instructions[name]; ok {
		return inst
	}
	return genericInstruction
}
