// Package bank reads question banks: YAML files listing questions together
// with their known answers. A parsed bank is imported through the answer
// service, so importing the same file twice stores nothing new.
//
// A bank looks like this:
//
//	version: "1"
//	creator: "bank:geography"
//	questions:
//	  - type: MATCH
//	    text: Match the capital to the country
//	    options: [France, Japan]
//	    extra_options: [Paris, Tokyo]
//	    answers:
//	      - correct: true
//	        pairs: {France: Paris, Japan: Tokyo}
//	  - type: ONE
//	    text: Largest ocean
//	    options: [Atlantic, Pacific]
//	    answers:
//	      - correct: true
//	        values: [Pacific]
//
// ONE, MANY and ORDER answers use values; MATCH answers use pairs. The
// creator of an answer defaults to the bank creator.
package bank
