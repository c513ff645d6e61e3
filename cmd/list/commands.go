package list

import (
	"context"
	"fmt"
	"strconv"

	"github.com/nilfjord/seqstore/lib/listproto"
	"github.com/spf13/cobra"
)

var (
	createCmd = &cobra.Command{
		Use:   "create [listId] [metadata]",
		Short: "Idempotently creates a list; an existing list is left unchanged",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			listID := args[0]
			var metadata []byte
			if len(args) == 2 {
				metadata = []byte(args[1])
			}
			summary, err := rpcListClient.IdempotentCreate(context.Background(), listID, metadata)
			if err != nil {
				return err
			}
			printSummary(summary)
			return nil
		},
	}

	appendCmd = &cobra.Command{
		Use:   "append [listId] [value]",
		Short: "Appends a value to the list, rolling over to a new page if the current page is full",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			listID := args[0]
			value := args[1]
			result, err := rpcListClient.AtomicAppend(context.Background(), listID, value)
			if err != nil {
				return err
			}
			fmt.Printf("pageId=%s, sequenceId=%d\n", result.PageID, result.SequenceID)
			return nil
		},
	}

	currentPageCmd = &cobra.Command{
		Use:   "current-page [listId]",
		Short: "Reads the list's current page number",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			listID := args[0]
			page, err := rpcListClient.GetCurrentPage(context.Background(), listID)
			if err != nil {
				return err
			}
			fmt.Printf("currentPage=%d\n", page)
			return nil
		},
	}

	summaryCmd = &cobra.Command{
		Use:   "summary [listId]",
		Short: "Reads the list's summary item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			listID := args[0]
			summary, err := rpcListClient.GetSummary(context.Background(), listID)
			if err != nil {
				return err
			}
			printSummary(summary)
			return nil
		},
	}

	getPageCmd = &cobra.Command{
		Use:   "get-page [listId] [pageNumber]",
		Short: "Reads one data page of the list",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			listID := args[0]
			pageNumber, err := strconv.ParseInt(args[1], 10, 64)
			if err != nil {
				return fmt.Errorf("pageNumber must be a number: %w", err)
			}
			page, err := rpcListClient.GetDataPage(context.Background(), listID, pageNumber)
			if err != nil {
				return err
			}
			printItems(page.Data)
			return nil
		},
	}

	retrieveLastCmd = &cobra.Command{
		Use:   "retrieve-last [listId] [n]",
		Short: "Retrieves the n most recently appended items",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			listID := args[0]
			n, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("n must be a number: %w", err)
			}
			items, cursor, err := rpcListClient.RetrieveLastMostRecent(context.Background(), listID, n)
			if err != nil {
				return err
			}
			printItems(items)
			printCursor(cursor)
			return nil
		},
	}

	retrieveNextCmd = &cobra.Command{
		Use:   "retrieve-next [listId] [cursorPageId] [cursorSequenceId] [n]",
		Short: "Retrieves the n items preceding a cursor returned by a previous retrieval",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			listID := args[0]
			cursorPageID := args[1]
			cursorSequenceID, err := strconv.Atoi(args[2])
			if err != nil {
				return fmt.Errorf("cursorSequenceId must be a number: %w", err)
			}
			n, err := strconv.Atoi(args[3])
			if err != nil {
				return fmt.Errorf("n must be a number: %w", err)
			}
			cursor := listproto.Cursor{PageID: cursorPageID, SequenceID: cursorSequenceID}
			items, nextCursor, err := rpcListClient.RetrieveNextMostRecent(context.Background(), listID, cursor, n)
			if err != nil {
				return err
			}
			printItems(items)
			printCursor(nextCursor)
			return nil
		},
	}
)

func printSummary(summary listproto.Summary) {
	fmt.Printf("id=%s, currentPage=%d, submittedAt=%d, metadata=%s\n",
		summary.ID, summary.CurrentPage, summary.SubmittedAt, summary.Metadata)
}

func printItems(items []listproto.Item) {
	for _, item := range items {
		fmt.Printf("pageId=%s, sequenceId=%d, value=%v\n", item.PageID, item.SequenceID, item.Value)
	}
}

func printCursor(cursor listproto.Cursor) {
	fmt.Printf("cursor=%s:%d\n", cursor.PageID, cursor.SequenceID)
}
