package cmd

import (
	"flag"

	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

// predictors of the flags whose values can be guessed, by flag name.
var predictors = map[string]complete.Predictor{
	"config": predict.Files("*.yaml"),
	"data":   predict.Dirs("*"),
	"p":      predict.Set{"day", "week", "month", "quarter", "year"},
}

// Completion returns the shell completion of the nw command, with the global flags
// of fs and the flags of every subcommand.
func Completion(fs *flag.FlagSet) *complete.Command {
	c := &complete.Command{
		Sub:   make(map[string]*complete.Command, len(reports)+1),
		Flags: flagPredictors(fs),
	}
	for _, r := range append(reports, &topicCmd{}) {
		sub := flag.NewFlagSet(r.Name(), flag.ContinueOnError)
		r.SetFlags(sub)
		c.Sub[r.Name()] = &complete.Command{Flags: flagPredictors(sub)}
	}
	return c
}

func flagPredictors(fs *flag.FlagSet) map[string]complete.Predictor {
	res := make(map[string]complete.Predictor)
	fs.VisitAll(func(f *flag.Flag) {
		switch p, ok := predictors[f.Name]; {
		case ok:
			res[f.Name] = p
		case isBool(f):
			res[f.Name] = predict.Nothing
		default:
			res[f.Name] = predict.Something
		}
	})
	return res
}

func isBool(f *flag.Flag) bool {
	b, ok := f.Value.(interface{ IsBoolFlag() bool })
	return ok && b.IsBoolFlag()
}
