// Package promptcraft builds few-shot prompts for large language models and
// parses what the models send back.
//
// The centre of the package is LengthBasedSelector: given a pool of
// demonstration examples and a length budget it returns the longest prefix
// of the pool whose rendered length fits. Selection is greedy and stops at
// the first example that would overflow, so the result never depends on
// the user's input.
//
// # Basic Usage
//
//	exampleTmpl := promptcraft.MustNewPromptTemplate("\nUser: {query}\nAI: {answer}\n")
//	selector, err := promptcraft.NewLengthBasedSelector(examples, exampleTmpl.FormatExample, 100)
//	if err != nil {
//	    return err
//	}
//
//	prompt, err := promptcraft.NewFewShotPromptTemplate(promptcraft.FewShotConfig{
//	    Prefix:          "Here are some examples:",
//	    Suffix:          "\nUser: {query}\nAI: ",
//	    ExampleTemplate: exampleTmpl,
//	    Selector:        selector,
//	    Separator:       "\n",
//	})
//	text, err := prompt.Format(map[string]string{"query": "Who invented the telephone?"})
//
// # Template Syntax
//
// Placeholders are written {name}. Literal braces are doubled: {{ and }}.
// Names start with a letter or underscore and may contain letters, digits,
// underscores, dots and hyphens.
//
// # Length Units
//
// Lengths are measured by a LengthFunc. WordCount is the default; RuneCount,
// EstimatedTokenCount and NewTiktokenLength are also provided. The budget
// passed to the selector is in the same unit.
//
// # Calling Models
//
// A Chain pairs a prompt with a Completer. NewCompleter builds OpenAI,
// Anthropic, Gemini or Ollama clients from an explicit ModelConfig:
//
//	cfg, err := promptcraft.LoadModelConfig("model.yaml")
//	completer, err := promptcraft.NewCompleter(ctx, cfg)
//	chain, err := promptcraft.NewChain(prompt, completer)
//	answer, err := chain.Run(ctx, map[string]string{"query": "Who invented the telephone?"})
//
// # Structured Output
//
// StructuredOutputParser renders format instructions for a declared
// OutputSchema and validates the reply before decoding it:
//
//	parser, err := promptcraft.NewStructuredOutputParser[Suggestions](promptcraft.OutputSchema{
//	    Fields:     []promptcraft.FieldSpec{{Name: "words", Type: "array"}},
//	    Validators: []promptcraft.Validator{promptcraft.NoLeadingDigit("words")},
//	})
//	suggestions, err := promptcraft.RunStructured(ctx, chain, parser, inputs)
//
// # Thread Safety
//
// Selectors and templates are immutable after construction and safe for
// concurrent use. Clients are safe for concurrent use if the injected
// services are.
package promptcraft
