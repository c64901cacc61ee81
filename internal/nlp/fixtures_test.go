package nlp

import "github.com/boykin345/ConversationalAI/internal/models"

func qaFixture() []models.QAPair {
	return []models.QAPair{
		{Question: "what is inflation", Answer: "A rise in prices over time."},
		{Question: "what are stocks and bonds", Answer: "Stocks represent ownership in a company, while bonds are loans made by an investor to a borrower."},
		{Question: "what is a mortgage", Answer: "A loan used to purchase property where the property itself serves as collateral."},
	}
}
