// Package catalog holds the built-in literacy exercises seeded at startup.
// Levels progress from single letters to short phrases in Portuguese.
package catalog

import "github.com/phrazzld/alfa-api/internal/domain"

func letter(content string) domain.Activity {
	return domain.Activity{Kind: domain.ActivityLetter, Content: content, Level: 1, AudioURL: audio(content)}
}

func syllable(content string) domain.Activity {
	return domain.Activity{Kind: domain.ActivitySyllable, Content: content, Level: 2, AudioURL: audio(content)}
}

func word(content string) domain.Activity {
	return domain.Activity{Kind: domain.ActivityWord, Content: content, Level: 3, AudioURL: audio(content)}
}

func phrase(content string) domain.Activity {
	return domain.Activity{Kind: domain.ActivityPhrase, Content: content, Level: 4, AudioURL: audio(content)}
}

// Activities returns a fresh copy of the seed set, in presentation order.
func Activities() []domain.Activity {
	return []domain.Activity{
		letter("A"), letter("E"), letter("I"), letter("O"), letter("U"),
		letter("B"), letter("C"), letter("D"), letter("F"), letter("G"),

		syllable("BA"), syllable("BE"), syllable("BI"), syllable("BO"), syllable("BU"),
		syllable("CA"), syllable("LA"), syllable("MA"), syllable("PA"), syllable("TA"),

		word("BOLA"), word("CASA"), word("GATO"), word("PATO"), word("MALA"),
		word("SAPO"), word("VACA"), word("DADO"),

		phrase("O GATO BEBE LEITE"),
		phrase("A BOLA E AZUL"),
		phrase("EU GOSTO DE LER"),
		phrase("O SOL BRILHA"),
	}
}
