package plugin

import (
	"context"
	"fmt"
	"strings"

	"github.com/EmundoT/git-assess/internal/types"
)

const indicatorHasCitation = "has_citation"

var cffConvertInfo = types.PluginInfo{
	Name:    "CFFConvert",
	ID:      "https://w3id.org/everse/tools/cffconvert",
	Version: "2.0.0",
}

var cffConvertFactory = Factory{
	Info:       cffConvertInfo,
	Indicators: []string{indicatorHasCitation},
	New:        newCFFConvert,
}

// cffConvert validates CITATION.cff through the cffconvert package.
type cffConvert struct {
	base
	sandbox Sandbox
}

func newCFFConvert(ctx context.Context, _ types.RunContext, env Environment) (Plugin, error) {
	info := cffConvertInfo
	sb, err := provisionSandbox(ctx, env, "cffconvert", info.Version)
	if err != nil {
		return nil, err
	}

	p := &cffConvert{base: base{info: info}, sandbox: sb}
	p.release = append(p.release, sb.Release)
	p.handle(indicatorHasCitation, p.hasCitation)
	return p, nil
}

// citationScript validates the CITATION.cff published at url. A missing file,
// unparseable YAML or a schema violation prints "False". Transport failures and
// unexpected tool errors propagate so the script exits non-zero.
func citationScript(url string) string {
	return fmt.Sprintf(`
		import sys
		verdicts = [ValueError]
		for module, name in (("jsonschema.exceptions", "ValidationError"), ("ruamel.yaml", "YAMLError"), ("yaml", "YAMLError")):
		    try:
		        verdicts.append(getattr(__import__(module, fromlist=[name]), name))
		    except (ImportError, AttributeError):
		        pass
		from cffconvert.cli.create_citation import create_citation
		try:
		    citation = create_citation(None, %s)
		    citation.validate()
		except FileNotFoundError as exc:
		    print("False")
		    print(exc, file=sys.stderr)
		except OSError:
		    raise
		except tuple(verdicts) as exc:
		    print("False")
		    print(exc, file=sys.stderr)
		except Exception as exc:
		    # cffconvert reports an unreachable CITATION.cff with a bare Exception.
		    if type(exc) is not Exception:
		        raise
		    print("False")
		    print(exc, file=sys.stderr)
		else:
		    print("True")
	`, pyString(url))
}

func (p *cffConvert) hasCitation(ctx context.Context, target types.RepositoryTarget) ([]types.CheckResult, error) {
	script := citationScript(treeURL(target.URL, target.Ref))

	res, err := p.sandbox.Run(ctx, script)
	if err != nil {
		return nil, p.fail(indicatorHasCitation, err)
	}
	if res.ExitCode != 0 {
		return nil, p.fail(indicatorHasCitation, scriptFailure(res))
	}

	result := types.CheckResult{
		Process:  "Searches for a 'CITATION.cff' file in the repository root and validates its syntax.",
		StatusID: types.StatusCompleted,
	}
	if strings.TrimSpace(res.Stdout) == "True" {
		result.Output = "valid"
		result.Evidence = "Found valid CITATION.cff file in repository root."
		result.Success = true
	} else {
		result.Output = "invalid"
		result.Evidence = "No valid CITATION.cff file found in repository root."
	}
	return single(result), nil
}
