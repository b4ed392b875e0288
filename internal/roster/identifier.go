package roster

// FormatCPF normalizes a raw CPF to the display pattern NNN.NNN.NNN-NN used
// as the dedup and lookup key everywhere downstream. Inputs that are not
// exactly eleven digits pass through unchanged, so already-formatted or
// malformed values survive a second pass. Pure and total.
func FormatCPF(raw string) string {
	if len(raw) != 11 {
		return raw
	}
	for _, r := range raw {
		if r < '0' || r > '9' {
			return raw
		}
	}
	return raw[0:3] + "." + raw[3:6] + "." + raw[6:9] + "-" + raw[9:11]
}
