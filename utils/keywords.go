package utils

import "github.com/Ingenium9/plum-assignment/dto"

// KeywordSpec is one label the rule engine looks for on a bill line.
// Variants are common OCR misreads of the canonical keyword.
type KeywordSpec struct {
	Keyword  string
	Weight   float64
	Variants []string
}

// KindKeywords pairs an amount kind with its ordered keyword specs.
type KindKeywords struct {
	Kind  dto.AmountKind
	Specs []KeywordSpec
}

// AmountKeywords is scanned in order; within a kind, specs are ordered by
// specificity (weight).
var AmountKeywords = []KindKeywords{
	{
		Kind: dto.KindTotalBill,
		Specs: []KeywordSpec{
			{Keyword: "grand total", Weight: 1.0},
			{Keyword: "bill amount", Weight: 0.98},
			{Keyword: "net amount", Weight: 0.95},
			{Keyword: "bill total", Weight: 0.92},
			{Keyword: "total", Weight: 0.9, Variants: []string{"t0tal", "totai", "tota1", "t0ta1", "t0tai"}},
			{Keyword: "amount to pay", Weight: 0.88},
			{Keyword: "bill value", Weight: 0.85},
			{Keyword: "amount payable", Weight: 0.85},
		},
	},
	{
		Kind: dto.KindPaid,
		Specs: []KeywordSpec{
			{Keyword: "payment done", Weight: 0.98},
			{Keyword: "amount paid", Weight: 0.95},
			{Keyword: "paid", Weight: 0.92, Variants: []string{"pald", "palid", "pa1d", "pa1ld"}},
			{Keyword: "received", Weight: 0.9},
			{Keyword: "payment", Weight: 0.88},
			{Keyword: "collected", Weight: 0.88, Variants: []string{"coiiected", "co11ected"}},
			{Keyword: "advance", Weight: 0.85},
			{Keyword: "cash received", Weight: 0.84},
		},
	},
	{
		Kind: dto.KindDue,
		Specs: []KeywordSpec{
			{Keyword: "balance due", Weight: 0.95},
			{Keyword: "amount due", Weight: 0.93},
			{Keyword: "pending", Weight: 0.92},
			{Keyword: "outstanding", Weight: 0.92},
			{Keyword: "payable", Weight: 0.9},
			{Keyword: "due", Weight: 0.88},
			{Keyword: "remaining", Weight: 0.86},
			{Keyword: "balance", Weight: 0.85, Variants: []string{"balanse", "ba1ance", "bahance"}},
		},
	},
	{
		Kind: dto.KindDiscount,
		Specs: []KeywordSpec{
			{Keyword: "discount", Weight: 0.9, Variants: []string{"disc", "discnt"}},
			{Keyword: "less", Weight: 0.82},
			{Keyword: "rebate", Weight: 0.8},
			{Keyword: "concession", Weight: 0.78},
		},
	},
	{
		Kind: dto.KindTax,
		Specs: []KeywordSpec{
			{Keyword: "gst", Weight: 0.92},
			{Keyword: "cgst", Weight: 0.9},
			{Keyword: "sgst", Weight: 0.9},
			{Keyword: "igst", Weight: 0.9},
			{Keyword: "tax", Weight: 0.88},
			{Keyword: "vat", Weight: 0.85},
		},
	},
}

// CurrencyEntry is one row of the currency detection table.
type CurrencyEntry struct {
	Code    string
	Symbols []string
	Weight  float64
}

// CurrencyTable is scanned in order; the first symbol hit wins.
var CurrencyTable = []CurrencyEntry{
	{Code: "INR", Symbols: []string{"₹", "rs", "inr", "rupee", "रु", "rs.", "rs/-"}, Weight: 0.95},
	{Code: "USD", Symbols: []string{"$", "usd", "dollar", "us$"}, Weight: 0.9},
	{Code: "EUR", Symbols: []string{"€", "eur", "euro"}, Weight: 0.9},
	{Code: "GBP", Symbols: []string{"£", "gbp", "pound"}, Weight: 0.85},
	{Code: "AED", Symbols: []string{"aed", "dirham", "د.إ"}, Weight: 0.85},
	{Code: "SAR", Symbols: []string{"sar", "riyal", "ر.س"}, Weight: 0.85},
}
