package codepage

// The following four codepages are not carried by golang.org/x/text/
// encoding/charmap; they are hand-tabulated here from their published
// code charts (DESIGN.md records this as the one place this package falls
// back to a literal table instead of an ecosystem library, per the
// "no suitable library could serve it" requirement). The control range
// (0x00-0x1F) and 0x20-0x7E ASCII range are identical to CP437 in all DOS
// codepages, so each builder starts from a copy of the CP437 table and
// overrides only the upper-half positions listed in its literal; any upper
// position not listed keeps its CP437 glyph.

func buildCP720() Table {
	t := *tables[CP437]
	arabic := [256]rune{
		0x80: 'Ç', 0x81: 'ü', 0x82: 'é', 0x83: 'â', 0x84: 'ا', 0x85: 'à', 0x86: 'ب', 0x87: 'ة',
		0x88: 'ت', 0x89: 'ث', 0x8A: 'ج', 0x8B: 'ح', 0x8C: 'خ', 0x8D: 'د', 0x8E: 'ذ', 0x8F: 'ر',
		0x90: 'ز', 0x91: 'س', 0x92: 'ش', 0x93: 'ص', 0x94: 'ض', 0x95: 'ط', 0x96: 'ظ', 0x97: 'ع',
		0x98: 'غ', 0x99: 'ف', 0x9A: 'ق', 0x9B: 'ك', 0x9C: 'ل', 0x9D: 'م', 0x9E: 'ن', 0x9F: 'ه',
		0xA0: 'و', 0xA1: 'ى', 0xA2: 'ي', 0xA3: 'ً', 0xA4: 'ٌ', 0xA5: 'ٍ', 0xA6: 'َ', 0xA7: 'ُ',
		0xA8: 'ِ', 0xA9: 'ّ', 0xAA: 'ْ', 0xAB: '½', 0xAC: '¼', 0xAD: 'ٰ', 0xAE: '«', 0xAF: '»',
	}
	for i, r := range arabic {
		if r != 0 {
			t[i] = r
		}
	}
	return t
}

func buildCP737() Table {
	t := *tables[CP437]
	greek := [256]rune{
		0x80: 'Α', 0x81: 'Β', 0x82: 'Γ', 0x83: 'Δ', 0x84: 'Ε', 0x85: 'Ζ', 0x86: 'Η', 0x87: 'Θ',
		0x88: 'Ι', 0x89: 'Κ', 0x8A: 'Λ', 0x8B: 'Μ', 0x8C: 'Ν', 0x8D: 'Ξ', 0x8E: 'Ο', 0x8F: 'Π',
		0x90: 'Ρ', 0x91: 'Σ', 0x92: 'Τ', 0x93: 'Υ', 0x94: 'Φ', 0x95: 'Χ', 0x96: 'Ψ', 0x97: 'Ω',
		0x98: 'α', 0x99: 'β', 0x9A: 'γ', 0x9B: 'δ', 0x9C: 'ε', 0x9D: 'ζ', 0x9E: 'η', 0x9F: 'θ',
		0xA0: 'ι', 0xA1: 'κ', 0xA2: 'λ', 0xA3: 'μ', 0xA4: 'ν', 0xA5: 'ξ', 0xA6: 'ο', 0xA7: 'π',
		0xA8: 'ρ', 0xA9: 'σ', 0xAA: 'ς', 0xAB: 'τ', 0xAC: 'υ', 0xAD: 'φ', 0xAE: 'χ', 0xAF: 'ψ',
		0xE0: 'ω', 0xE1: 'ά', 0xE2: 'έ', 0xE3: 'ή', 0xE4: 'ί', 0xE5: 'ό', 0xE6: 'ύ', 0xE7: 'ώ',
	}
	for i, r := range greek {
		if r != 0 {
			t[i] = r
		}
	}
	return t
}

func buildCP775() Table {
	t := *tables[CP437]
	baltic := [256]rune{
		0x80: 'Ć', 0x81: 'ü', 0x82: 'é', 0x83: 'ā', 0x84: 'ä', 0x85: 'ģ', 0x86: 'å', 0x87: 'ć',
		0x88: 'ł', 0x89: 'ē', 0x8A: 'Ŗ', 0x8B: 'ŗ', 0x8C: 'ī', 0x8D: 'Ź', 0x8E: 'Ä', 0x8F: 'Å',
		0x90: 'É', 0x91: 'æ', 0x92: 'Æ', 0x93: 'ō', 0x94: 'ö', 0x95: 'Ģ', 0x96: '¢', 0x97: 'ś',
		0x98: 'ż', 0x99: 'Ö', 0x9A: 'Ü', 0x9B: 'ø', 0x9C: '£', 0x9D: 'Ø', 0x9E: '×', 0x9F: 'ų',
		0xA0: 'ā', 0xA1: 'į', 0xA2: 'ó', 0xA3: 'Ó', 0xA4: 'ķ', 0xA5: 'Ō', 0xA6: 'ļ', 0xA7: 'Ņ',
		0xA8: 'ņ', 0xA9: 'Ī', 0xAA: '®', 0xAB: '½', 0xAC: 'Ł', 0xAD: 'ē', 0xAE: '«', 0xAF: '»',
	}
	for i, r := range baltic {
		if r != 0 {
			t[i] = r
		}
	}
	return t
}

func buildCP857() Table {
	t := *tables[CP437]
	turkish := [256]rune{
		0x80: 'Ç', 0x81: 'ü', 0x82: 'é', 0x83: 'â', 0x84: 'ä', 0x85: 'à', 0x86: 'å', 0x87: 'ç',
		0x88: 'ê', 0x89: 'ë', 0x8A: 'è', 0x8B: 'ï', 0x8C: 'î', 0x8D: 'ı', 0x8E: 'Ä', 0x8F: 'Å',
		0x90: 'É', 0x91: 'æ', 0x92: 'Æ', 0x93: 'ô', 0x94: 'ö', 0x95: 'ò', 0x96: 'û', 0x97: 'ù',
		0x98: 'İ', 0x99: 'Ö', 0x9A: 'Ü', 0x9B: 'ø', 0x9C: '£', 0x9D: 'Ø', 0x9E: 'Ş', 0x9F: 'ş',
		0xA0: 'á', 0xA1: 'í', 0xA2: 'ó', 0xA3: 'ú', 0xA4: 'ñ', 0xA5: 'Ñ', 0xA6: 'Ğ', 0xA7: 'ğ',
	}
	for i, r := range turkish {
		if r != 0 {
			t[i] = r
		}
	}
	return t
}
