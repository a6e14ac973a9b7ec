package cli

import (
	"context"
	"text/tabwriter"
)

// History prints one page of the signed-in player's matches.
func (a *App) History(ctx context.Context, page int) error {
	hp, err := a.historyService.Page(ctx, page)
	if err != nil {
		a.println(errorMessage(err))
		return err
	}

	if len(hp.Rows) == 0 {
		a.println("No matches on this page.")
		return nil
	}

	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	_, _ = tw.Write([]byte("DATE\tRESULT\tSCORE\tPARTNER\tOPPONENTS\tDIVISION\n"))
	for _, r := range hp.Rows {
		line := r.PlayedAt.Format("2006-01-02") + "\t" + r.Result + "\t" + r.Score + "\t" +
			dash(r.Partner) + "\t" + r.Opponents + "\t" + dash(r.Division) + "\n"
		_, _ = tw.Write([]byte(line))
	}
	_ = tw.Flush()

	if hp.HasNext {
		a.printf("Page %d. Type 'history %d' for more.\n", hp.Page, hp.Page+1)
	} else {
		a.printf("Page %d. No more matches.\n", hp.Page)
	}
	return nil
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
