package ml

// TokenTypeFeature is the only categorical input. An absent value encodes as
// the empty string.
const TokenTypeFeature = "erc20_most_rec_token_type"

var numericFeatureNames = []string{
	"avg_min_between_sent_tnx",
	"avg_min_between_received_tnx",
	"time_diff_between_first_last",
	"sent_tnx",
	"received_tnx",
	"number_of_created_contracts",
	"unique_received_from_addresses",
	"unique_sent_to_addresses",
	"min_value_received",
	"max_value_received",
	"avg_value_received",
	"min_value_sent",
	"max_value_sent",
	"avg_value_sent",
	"total_transactions",
	"total_ether_sent",
	"total_ether_received",
	"total_ether_sent_contracts",
	"total_ether_balance",
	"total_erc20_txns",
	"erc20_total_ether_received",
	"erc20_total_ether_sent",
	"erc20_total_ether_sent_contracts",
	"erc20_uniq_sent_addr",
	"erc20_uniq_rec_addr",
	"erc20_uniq_sent_addr_1",
	"erc20_uniq_rec_contract_addr",
	"erc20_min_val_rec",
	"erc20_max_val_rec",
	"erc20_avg_val_rec",
	"erc20_min_val_sent",
	"erc20_max_val_sent",
	"erc20_avg_val_sent",
	"erc20_uniq_sent_token_name",
	"erc20_uniq_rec_token_name",
}

// WalletFeatures is one account's aggregated transaction statistics.
type WalletFeatures struct {
	Numeric   map[string]float64
	TokenType string
}

// FeatureNames returns the numeric feature names in model column order.
func FeatureNames() []string {
	return append([]string(nil), numericFeatureNames...)
}

func NumericFeatureCount() int {
	return len(numericFeatureNames)
}

// FeatureVector lays the numeric features out in model column order. Names
// missing from the record contribute zero; callers validate first.
func FeatureVector(feature WalletFeatures) []float64 {
	vector := make([]float64, len(numericFeatureNames))
	for i, name := range numericFeatureNames {
		vector[i] = feature.Numeric[name]
	}
	return vector
}

// EncodeFeatures appends the encoded token type to the numeric columns,
// producing the single row the pipeline consumes.
func EncodeFeatures(feature WalletFeatures, encoder Encoder) ([]float64, error) {
	encoded, err := encoder.Transform(feature.TokenType)
	if err != nil {
		return nil, err
	}
	return append(FeatureVector(feature), encoded...), nil
}
